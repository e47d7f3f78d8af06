package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles form a closed enumeration. Route policy is expressed as a set of
// allowed roles per endpoint, never as ad hoc string checks.
const (
	RoleReader = "lector"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is a member of the enumeration
func ValidRole(role string) bool {
	return role == RoleReader || role == RoleEditor || role == RoleAdmin
}

// activeMarker is the value of the partial-uniqueness helper column for
// active rows. Deactivated rows carry NULL, which MySQL exempts from unique
// indexes, so the book identity constraint only spans active rows.
const activeMarker = "1"

// ActiveKey returns the marker value for active rows
func ActiveKey() *string {
	m := activeMarker
	return &m
}

// User represents the usuarios table
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Email     string    `gorm:"column:email;size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"`
	Role      string    `gorm:"column:rol;size:20;not null;default:'lector'" json:"rol"`
	Active    bool      `gorm:"column:activo;not null;default:true" json:"activo"`
	CreatedAt time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	UpdatedAt time.Time `gorm:"column:fecha_actualizacion;autoUpdateTime" json:"-"`
}

func (User) TableName() string {
	return "usuarios"
}

// BeforeCreate assigns a UUID when none was provided
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserResponse is the public view of a user, never carrying the hash
type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	Role   string `json:"rol"`
	Active bool   `json:"activo"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Active: u.Active,
	}
}

// Book represents the libros table.
//
// The identity constraint (titulo, autor, casa_editorial) must only span
// active rows: deactivating a book frees its identity for a later re-entry.
// MySQL has no partial indexes, so the composite unique index includes
// activo_key, set to '1' while the row is active and NULL once deactivated.
type Book struct {
	ID              string     `gorm:"type:char(36);primaryKey" json:"id"`
	Title           string     `gorm:"column:titulo;size:200;not null;uniqueIndex:uniq_libro_identidad,priority:1" json:"titulo"`
	Author          string     `gorm:"column:autor;size:150;not null;uniqueIndex:uniq_libro_identidad,priority:2" json:"autor"`
	Genre           string     `gorm:"column:genero;size:100" json:"genero"`
	Publisher       string     `gorm:"column:casa_editorial;size:150;uniqueIndex:uniq_libro_identidad,priority:3" json:"casa_editorial"`
	PublicationDate *time.Time `gorm:"column:fecha_publicacion;type:date" json:"fecha_publicacion"`
	Available       bool       `gorm:"column:disponible;not null;default:true" json:"disponible"`
	Active          bool       `gorm:"column:activo;not null;default:true" json:"activo"`
	ActiveKey       *string    `gorm:"column:activo_key;size:1;uniqueIndex:uniq_libro_identidad,priority:4" json:"-"`
	CreatedAt       time.Time  `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	UpdatedAt       time.Time  `gorm:"column:fecha_actualizacion;autoUpdateTime" json:"-"`
}

func (Book) TableName() string {
	return "libros"
}

// BeforeCreate assigns a UUID and the active marker
func (b *Book) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Active && b.ActiveKey == nil {
		b.ActiveKey = ActiveKey()
	}
	return nil
}

// BookSummary identifies a conflicting catalog entry in duplicate errors
type BookSummary struct {
	ID        string `json:"id"`
	Title     string `json:"titulo"`
	Author    string `json:"autor"`
	Publisher string `json:"casa_editorial"`
}

func (b *Book) ToSummary() *BookSummary {
	return &BookSummary{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
	}
}

// Reservation represents the reservas table. Rows are append-only: the
// workflow creates them and nothing ever updates or deletes one.
type Reservation struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     string     `gorm:"column:usuario_id;type:char(36);index;not null" json:"usuario"`
	BookID     string     `gorm:"column:libro_id;type:char(36);index;not null" json:"libro"`
	ReservedAt time.Time  `gorm:"column:fecha_reserva;not null" json:"fecha_reserva"`
	DueDate    *time.Time `gorm:"column:fecha_entrega" json:"fecha_entrega"`
	CreatedAt  time.Time  `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`

	// Non-owning references: deactivating a user or book does not cascade.
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Book *Book `gorm:"foreignKey:BookID" json:"-"`
}

func (Reservation) TableName() string {
	return "reservas"
}

// BeforeCreate assigns a UUID and defaults the reservation timestamp
func (r *Reservation) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ReservedAt.IsZero() {
		r.ReservedAt = time.Now()
	}
	return nil
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Book{},
		&Reservation{},
	)
}
