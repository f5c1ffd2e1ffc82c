package model

import "time"

type Student struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Class       string    `json:"class"`
	School      string    `json:"school,omitempty"`
	Status      string    `json:"status"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type School struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	Status       string    `json:"status"`
	LogoURL      string    `json:"logoUrl,omitempty"`
	StudentCount int       `json:"studentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Class struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Grade        int    `json:"grade"`
	School       string `json:"school,omitempty"`
	StudentCount int    `json:"studentCount"`
}

type Worksheet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Class     string    `json:"class"`
	FileURL   string    `json:"fileUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Membership struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	DurationMonths int     `json:"durationMonths"`
	Status         string  `json:"status"`
	MemberCount    int     `json:"memberCount"`
}
