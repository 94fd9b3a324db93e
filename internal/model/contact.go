package model

import "time"

// Contact is a saved transfer recipient. Email is unique.
type Contact struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}
