package model

import "github.com/google/uuid"

type FrameSet struct {
	PartID string // empty when the frame was cleared
}

func (e FrameSet) Type() string { return "FrameSet" }

type EntryAdded struct {
	InstanceID uuid.UUID
	PartID     string
}

func (e EntryAdded) Type() string { return "EntryAdded" }

type EntryRemoved struct {
	InstanceID uuid.UUID
}

func (e EntryRemoved) Type() string { return "EntryRemoved" }

type EntryMoved struct {
	From int
	To   int
}

func (e EntryMoved) Type() string { return "EntryMoved" }

type AssemblyCleared struct{}

func (e AssemblyCleared) Type() string { return "AssemblyCleared" }

type OrderCreated struct {
	Number int
	Name   string
}

func (e OrderCreated) Type() string { return "OrderCreated" }

type OrderSubmissionFailed struct {
	Reason string
}

func (e OrderSubmissionFailed) Type() string { return "OrderSubmissionFailed" }

type FeedRefreshed struct {
	Total      int
	TotalToday int
}

func (e FeedRefreshed) Type() string { return "FeedRefreshed" }

type SessionStarted struct {
	Email string
}

func (e SessionStarted) Type() string { return "SessionStarted" }

type SessionEnded struct{}

func (e SessionEnded) Type() string { return "SessionEnded" }
