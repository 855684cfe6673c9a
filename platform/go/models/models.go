// Package models holds the entity types shared by the datastore, the domain services and the HTTP layer.
package models

import "time"

// Role identifies what a principal may do.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleStationOfficer Role = "station_officer"
	RoleUser           Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStationOfficer, RoleUser:
		return true
	default:
		return false
	}
}

// Station is a tenant. Inactive stations block logins and writes for their members.
type Station struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// User is a principal. Admins carry no StationID; everyone else carries exactly one.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	StationID   string `json:"stationId,omitempty"`
	SSOID       string `json:"ssoId"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	Designation string `json:"designation"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Record is one row of a register, scoped to a station and year.
type Record struct {
	ID         string           `json:"id"`
	TenantID   string           `json:"tenantId"`
	RegisterID string           `json:"registerId"`
	Year       int              `json:"year"`
	Fields     map[string]Value `json:"fields"`
	CreatedBy  string           `json:"createdBy,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Clone returns a copy that shares no maps with the receiver.
func (r Record) Clone() Record {
	out := r
	out.Fields = make(map[string]Value, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}

// MetaKeys are the record attributes Plain adds next to the field values.
var MetaKeys = []string{"id", "tenantId", "registerId", "year", "createdAt", "updatedAt", "createdBy"}

// Plain flattens the record into the shape served over HTTP.
func (r Record) Plain() map[string]any {
	out := make(map[string]any, len(r.Fields)+7)
	for k, v := range r.Fields {
		out[k] = v.Interface()
	}
	out["id"] = r.ID
	out["tenantId"] = r.TenantID
	out["registerId"] = r.RegisterID
	out["year"] = r.Year
	out["createdAt"] = r.CreatedAt
	out["updatedAt"] = r.UpdatedAt
	if r.CreatedBy != "" {
		out["createdBy"] = r.CreatedBy
	}
	return out
}

type NotificationType string

const (
	NotificationChat   NotificationType = "chat"
	NotificationTask   NotificationType = "task"
	NotificationSystem NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationChat, NotificationTask, NotificationSystem:
		return true
	default:
		return false
	}
}

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

// Attachment is an inline file carried by a chat message.
type Attachment struct {
	DataURI  string `json:"dataUri"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// ChatMessage is immutable after creation except for Read, which only goes false to true.
type ChatMessage struct {
	ID         string      `json:"id"`
	FromUserID string      `json:"fromUserId"`
	ToUserID   string      `json:"toUserId"`
	Text       string      `json:"text,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Read       bool        `json:"read"`
}

type ActivityLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId,omitempty"`
	UserName    string    `json:"userName"`
	StationID   string    `json:"stationId,omitempty"`
	StationName string    `json:"stationName,omitempty"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
}
