package model

import "time"

type SupportTicket struct {
	ID          string        `json:"id"`
	Subject     string        `json:"subject"`
	Message     string        `json:"message"`
	RequesterID string        `json:"requesterId"`
	Requester   string        `json:"requester"`
	Status      string        `json:"status"` // "open", "in_progress", "resolved"
	Replies     []TicketReply `json:"replies,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type TicketReply struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
