package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectCategory groups portfolio items.
type ProjectCategory string

const (
	CategoryWebDesign      ProjectCategory = "Web Design"
	CategoryWebDevelopment ProjectCategory = "Web Development"
	CategoryMobileApps     ProjectCategory = "Mobile Apps"
	CategoryGames          ProjectCategory = "Games"
	CategoryMaintenance    ProjectCategory = "Maintenance"
	CategoryFeatured       ProjectCategory = "Featured"
)

// ProjectCategories lists every category in display order.
var ProjectCategories = []ProjectCategory{
	CategoryWebDesign,
	CategoryWebDevelopment,
	CategoryMobileApps,
	CategoryGames,
	CategoryMaintenance,
	CategoryFeatured,
}

// Valid reports whether c is a known category.
func (c ProjectCategory) Valid() bool {
	for _, known := range ProjectCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ProjectStatus is the publication state of a project. Any transition is allowed.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectPublished ProjectStatus = "published"
	ProjectArchived  ProjectStatus = "archived"
)

// ProjectStatuses lists every status.
var ProjectStatuses = []ProjectStatus{ProjectDraft, ProjectPublished, ProjectArchived}

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectDraft, ProjectPublished, ProjectArchived:
		return true
	}
	return false
}

// Testimonial is a client quote attached to a project.
type Testimonial struct {
	Quote    string `json:"quote" validate:"max=500"`
	Author   string `json:"author" validate:"max=100"`
	Position string `json:"position" validate:"max=100"`
	Company  string `json:"company" validate:"max=100"`
}

// Project represents a portfolio item.
type Project struct {
	ID           uuid.UUID                        `json:"id" gorm:"type:char(36);primaryKey"`
	Title        string                           `json:"title" gorm:"size:100;not null"`
	Subtitle     string                           `json:"subtitle" gorm:"size:200"`
	Description  string                           `json:"description" gorm:"type:text;not null"`
	Category     ProjectCategory                  `json:"category" gorm:"type:varchar(32);not null;default:'Web Development';index:idx_projects_category_status,priority:1"`
	Client       string                           `json:"client" gorm:"size:100;not null"`
	Image        string                           `json:"image" gorm:"size:500;not null"`
	Images       datatypes.JSONSlice[string]      `json:"images"`
	Tags         datatypes.JSONSlice[string]      `json:"tags"`
	Results      datatypes.JSONSlice[string]      `json:"results"`
	Link         string                           `json:"link" gorm:"size:500"`
	ExternalLink string                           `json:"externalLink" gorm:"size:500"`
	Featured     bool                             `json:"featured" gorm:"not null;default:false;index:idx_projects_featured_status,priority:1"`
	Status       ProjectStatus                    `json:"status" gorm:"type:varchar(16);not null;default:'draft';index:idx_projects_category_status,priority:2;index:idx_projects_featured_status,priority:2;index:idx_projects_status_order,priority:1"`
	Order        int                              `json:"order" gorm:"column:display_order;not null;default:0;index:idx_projects_status_order,priority:2"`
	Technologies datatypes.JSONSlice[string]      `json:"technologies"`
	Duration     string                           `json:"duration" gorm:"size:50"`
	TeamSize     *int                             `json:"teamSize,omitempty"`
	Budget       string                           `json:"budget" gorm:"size:50"`
	Challenges   datatypes.JSONSlice[string]      `json:"challenges"`
	Solutions    datatypes.JSONSlice[string]      `json:"solutions"`
	Metrics      datatypes.JSONMap                `json:"metrics"`
	Testimonials datatypes.JSONSlice[Testimonial] `json:"testimonials"`
	CreatedBy    uuid.UUID                        `json:"createdBy" gorm:"type:char(36);not null;index"`
	UpdatedBy    *uuid.UUID                       `json:"updatedBy" gorm:"type:char(36)"`
	CreatedAt    time.Time                        `json:"createdAt"`
	UpdatedAt    time.Time                        `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FullImageURL resolves the cover image against baseURL when it is a relative path.
func (p *Project) FullImageURL(baseURL string) string {
	return resolveURL(baseURL, p.Image)
}

// FullImageURLs resolves every gallery image against baseURL.
func (p *Project) FullImageURLs(baseURL string) []string {
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, resolveURL(baseURL, img))
	}
	return out
}

func resolveURL(baseURL, path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + path
}
