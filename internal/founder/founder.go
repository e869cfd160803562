package founder

import (
	"encoding/json"
	"os"
	"time"
)

// Founder is a registered founder profile. The id is assigned by the store at
// creation and never changes; every other attribute may be absent.
type Founder struct {
	ID              string     `json:"id,omitempty"`
	UserID          string     `json:"user_id,omitempty"`
	Name            string     `json:"name,omitempty"`
	Email           string     `json:"email,omitempty"`
	Skills          string     `json:"skills,omitempty"`
	Experience      string     `json:"experience,omitempty"`
	Goals           string     `json:"goals,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	CurrentProject  string     `json:"current_project,omitempty"`
	LookingFor      string     `json:"looking_for,omitempty"`
	City            string     `json:"city,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
// A profile with only one of the two is treated as having no location.
func (f *Founder) HasCoordinates() bool {
	return f != nil && f.Latitude != nil && f.Longitude != nil
}

// Message is one direct message between two founders. The id is assigned by
// the store at creation.
type Message struct {
	ID          string     `json:"id,omitempty"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Body        string     `json:"body"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type Founders struct {
	Items []*Founder `json:"items"`
}

func (fs *Founders) Len() int {
	return len(fs.Items)
}

func (fs *Founders) FindByID(id string) *Founder {
	for _, f := range fs.Items {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Contains reports whether a founder with the given id is in the list.
func (fs *Founders) Contains(id string) bool {
	return fs.FindByID(id) != nil
}

// Names returns display names in list order.
func (fs *Founders) Names() []string {
	names := make([]string, 0, len(fs.Items))
	for _, f := range fs.Items {
		names = append(names, f.Name)
	}
	return names
}

func (fs *Founders) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "founders_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fs); err != nil {
		return "", err
	}
	return file.Name(), nil
}
