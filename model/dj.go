package model

import "time"

type Socials struct {
	Facebook   string `json:"facebook,omitempty"`
	Instagram  string `json:"instagram,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	YouTube    string `json:"youtube,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Xing       string `json:"xing,omitempty"`
	Pinterest  string `json:"pinterest,omitempty"`
	GooglePlus string `json:"google_plus,omitempty"`
}

type DJ struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo,omitempty"`
	Thumbnail   int64     `json:"thumbnail,omitempty"`
	Website     string    `json:"website,omitempty"`
	Socials     Socials   `json:"socials"`
	Email       string    `json:"email,omitempty"`
	Tagline     string    `json:"tagline,omitempty"`
	Video       string    `json:"video,omitempty"`
	Country     string    `json:"country,omitempty"`
	Author      int64     `json:"author"`
	Status      Status    `json:"status"`
	UniqueKey   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Local struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo,omitempty"`
	Thumbnail   int64     `json:"thumbnail,omitempty"`
	Website     string    `json:"website,omitempty"`
	Socials     Socials   `json:"socials"`
	Country     string    `json:"country,omitempty"`
	Address     string    `json:"address,omitempty"`
	Author      int64     `json:"author"`
	Status      Status    `json:"status"`
	UniqueKey   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
