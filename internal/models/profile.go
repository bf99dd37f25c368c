package models

import "time"

// WorkEntry is one past position on a profile.
type WorkEntry struct {
	Position  string    `json:"position" bson:"position" validate:"required"`
	Company   string    `json:"company" bson:"company" validate:"required"`
	StartDate time.Time `json:"startDate" bson:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" bson:"endDate" validate:"required"`
}

// EducationEntry is one degree on a profile.
type EducationEntry struct {
	Degree       string    `json:"degree" bson:"degree" validate:"required"`
	FieldOfStudy string    `json:"fieldOfStudy" bson:"fieldOfStudy" validate:"required"`
	Institution  string    `json:"institution" bson:"institution" validate:"required"`
	StartDate    time.Time `json:"startDate" bson:"startDate" validate:"required"`
	EndDate      time.Time `json:"endDate" bson:"endDate" validate:"required"`
}

// Profile holds the professional details of exactly one user.
type Profile struct {
	ID              string           `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	UserID          string           `json:"userId" bson:"userId" gorm:"uniqueIndex;type:varchar(24)"`
	Bio             string           `json:"bio" bson:"bio"`
	CurrentPosition string           `json:"currentPosition" bson:"currentPosition"`
	Location        string           `json:"location" bson:"location"`
	PastWork        []WorkEntry      `json:"pastWork" bson:"pastWork" gorm:"serializer:json;type:text"`
	Education       []EducationEntry `json:"education" bson:"education" gorm:"serializer:json;type:text"`
}

// ProfileView is a profile with its owner joined in place of the user id.
type ProfileView struct {
	Profile
	UserID UserCompact `json:"userId"`
}

// UpdateProfileRequest lists the only profile fields a user may change.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	Token           string            `json:"token"`
	Bio             *string           `json:"bio,omitempty" validate:"omitempty,max=2000"`
	CurrentPosition *string           `json:"currentPosition,omitempty" validate:"omitempty,max=200"`
	Location        *string           `json:"location,omitempty" validate:"omitempty,max=200"`
	PastWork        *[]WorkEntry      `json:"pastWork,omitempty" validate:"omitempty,dive"`
	Education       *[]EducationEntry `json:"education,omitempty" validate:"omitempty,dive"`
}

// Apply copies the allow-listed fields onto p.
func (r *UpdateProfileRequest) Apply(p *Profile) {
	if r.Bio != nil {
		p.Bio = *r.Bio
	}
	if r.CurrentPosition != nil {
		p.CurrentPosition = *r.CurrentPosition
	}
	if r.Location != nil {
		p.Location = *r.Location
	}
	if r.PastWork != nil {
		p.PastWork = *r.PastWork
	}
	if r.Education != nil {
		p.Education = *r.Education
	}
}

// NewSeededProfile returns the sample profile every new account starts with.
func NewSeededProfile(userID string) *Profile {
	return &Profile{
		UserID:          userID,
		Bio:             "Passionate professional with expertise in technology and innovation.",
		CurrentPosition: "Software Developer",
		Location:        "New York, USA",
		PastWork: []WorkEntry{
			{
				Position:  "Junior Developer",
				Company:   "Tech Solutions Inc",
				StartDate: date(2022, time.January, 1),
				EndDate:   date(2023, time.June, 30),
			},
		},
		Education: []EducationEntry{
			{
				Degree:       "Bachelor of Science",
				FieldOfStudy: "Computer Science",
				Institution:  "University of Technology",
				StartDate:    date(2018, time.September, 1),
				EndDate:      date(2022, time.May, 30),
			},
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
