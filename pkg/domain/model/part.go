package model

import "errors"

var (
	ErrPartNotFound    = errors.New("part not found")
	ErrUnknownCategory = errors.New("unknown part category")
)

type Category int

const (
	FrameCategory Category = iota
	SolidFilling
	SauceFilling
)

// Wire names used by the catalog service.
const (
	categoryBun   = "bun"
	categoryMain  = "main"
	categorySauce = "sauce"
)

func (c Category) String() string {
	switch c {
	case FrameCategory:
		return categoryBun
	case SolidFilling:
		return categoryMain
	case SauceFilling:
		return categorySauce
	default:
		return "unknown"
	}
}

func ParseCategory(s string) (Category, error) {
	switch s {
	case categoryBun:
		return FrameCategory, nil
	case categoryMain:
		return SolidFilling, nil
	case categorySauce:
		return SauceFilling, nil
	default:
		return 0, ErrUnknownCategory
	}
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Part struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Proteins      int      `json:"proteins"`
	Fat           int      `json:"fat"`
	Carbohydrates int      `json:"carbohydrates"`
	Calories      int      `json:"calories"`
	Price         int64    `json:"price"`
	Image         string   `json:"image"`
	ImageMobile   string   `json:"imageMobile"`
	ImageLarge    string   `json:"imageLarge"`
}

// Placement is either a Frame or a Filling. Builder code switches on the
// concrete type instead of inspecting Part.Category.
type Placement interface {
	placed() Part
}

type Frame struct {
	Part Part
}

type Filling struct {
	Part Part
}

func (f Frame) placed() Part   { return f.Part }
func (f Filling) placed() Part { return f.Part }

func Place(p Part) Placement {
	if p.Category == FrameCategory {
		return Frame{Part: p}
	}
	return Filling{Part: p}
}
