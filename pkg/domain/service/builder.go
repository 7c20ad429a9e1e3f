package service

import (
	"sync"

	"github.com/google/uuid"

	"burger/pkg/domain/model"
)

type BuilderService interface {
	SetFrame(part *model.Part)
	AddEntry(part model.Part) (model.Entry, bool)
	AddByID(partID string) (model.Entry, bool, error)
	RemoveEntry(instanceID uuid.UUID)
	MoveEntry(index int, direction model.Direction)
	Clear()

	Assembly() model.Assembly
	Count() int
	Price() int64
}

func NewBuilderService(catalog CatalogService, dispatcher EventDispatcher) BuilderService {
	return &builderService{catalog: catalog, dispatcher: dispatcher}
}

type builderService struct {
	catalog    CatalogService
	dispatcher EventDispatcher

	mu       sync.Mutex
	assembly model.Assembly
}

func (s *builderService) SetFrame(part *model.Part) {
	s.mu.Lock()
	s.setFrame(part)
	s.mu.Unlock()

	partID := ""
	if part != nil {
		partID = part.ID
	}
	_ = s.dispatcher.Dispatch(model.FrameSet{PartID: partID})
}

func (s *builderService) setFrame(part *model.Part) {
	if part == nil {
		s.assembly.Frame = nil
		return
	}
	frame := *part
	s.assembly.Frame = &frame
}

func (s *builderService) AddEntry(part model.Part) (model.Entry, bool) {
	switch placed := model.Place(part).(type) {
	case model.Frame:
		s.SetFrame(&placed.Part)
		return model.Entry{}, false
	case model.Filling:
		entry := model.Entry{InstanceID: uuid.New(), Part: placed.Part}

		s.mu.Lock()
		s.assembly.Entries = append(s.assembly.Entries, entry)
		s.mu.Unlock()

		_ = s.dispatcher.Dispatch(model.EntryAdded{InstanceID: entry.InstanceID, PartID: part.ID})
		return entry, true
	default:
		return model.Entry{}, false
	}
}

func (s *builderService) AddByID(partID string) (model.Entry, bool, error) {
	part, err := s.catalog.Find(partID)
	if err != nil {
		return model.Entry{}, false, err
	}
	entry, added := s.AddEntry(part)
	return entry, added, nil
}

func (s *builderService) RemoveEntry(instanceID uuid.UUID) {
	s.mu.Lock()
	index := -1
	for i, entry := range s.assembly.Entries {
		if entry.InstanceID == instanceID {
			index = i
			break
		}
	}
	if index == -1 {
		s.mu.Unlock()
		return
	}
	s.assembly.Entries = append(s.assembly.Entries[:index], s.assembly.Entries[index+1:]...)
	s.mu.Unlock()

	_ = s.dispatcher.Dispatch(model.EntryRemoved{InstanceID: instanceID})
}

func (s *builderService) MoveEntry(index int, direction model.Direction) {
	target := index - 1
	if direction == model.Down {
		target = index + 1
	}

	s.mu.Lock()
	entries := s.assembly.Entries
	if index < 0 || index >= len(entries) || target < 0 || target >= len(entries) {
		s.mu.Unlock()
		return
	}
	entries[index], entries[target] = entries[target], entries[index]
	s.mu.Unlock()

	_ = s.dispatcher.Dispatch(model.EntryMoved{From: index, To: target})
}

func (s *builderService) Clear() {
	s.mu.Lock()
	s.assembly = model.Assembly{}
	s.mu.Unlock()

	_ = s.dispatcher.Dispatch(model.AssemblyCleared{})
}

func (s *builderService) Assembly() model.Assembly {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assembly.Clone()
}

func (s *builderService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assembly.Count()
}

func (s *builderService) Price() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assembly.Price()
}
