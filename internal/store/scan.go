package store

import (
	"database/sql"
	"fmt"

	"github.com/founderhub/founderhub/internal/founder"
)

const selectFounders = `SELECT id, user_id, name, email, skills, experience, goals, bio,
 current_project, looking_for, city, latitude, longitude, profile_image_url, created_at
 FROM founders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFounder(row rowScanner) (*founder.Founder, error) {
	var f founder.Founder
	var lat, lon sql.NullFloat64
	var userID, email, skills, experience, goals, bio, project, lookingFor, city, imageURL sql.NullString
	var createdAt sql.NullTime

	err := row.Scan(
		&f.ID, &userID, &f.Name, &email, &skills, &experience, &goals, &bio,
		&project, &lookingFor, &city, &lat, &lon, &imageURL, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	f.UserID = userID.String
	f.Email = email.String
	f.Skills = skills.String
	f.Experience = experience.String
	f.Goals = goals.String
	f.Bio = bio.String
	f.CurrentProject = project.String
	f.LookingFor = lookingFor.String
	f.City = city.String
	f.ProfileImageURL = imageURL.String

	if lat.Valid {
		f.Latitude = &lat.Float64
	}
	if lon.Valid {
		f.Longitude = &lon.Float64
	}
	if createdAt.Valid {
		t := createdAt.Time.UTC()
		f.CreatedAt = &t
	}

	return &f, nil
}

func collectFounders(rows *sql.Rows) (*founder.Founders, error) {
	founders := &founder.Founders{}
	for rows.Next() {
		f, err := scanFounder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan founder: %w", err)
		}
		founders.Items = append(founders.Items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return founders, nil
}

const selectMessages = `SELECT id, sender_id, recipient_id, body, created_at FROM messages`

func scanMessage(row rowScanner) (*founder.Message, error) {
	var m founder.Message
	var createdAt sql.NullTime

	if err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &createdAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		t := createdAt.Time.UTC()
		m.CreatedAt = &t
	}
	return &m, nil
}

func collectMessages(rows *sql.Rows) ([]*founder.Message, error) {
	messages := []*founder.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func requireRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
