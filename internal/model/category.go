package model

import (
	"slices"

	"github.com/google/uuid"
)

type CategoryID string

func NewCategoryID() CategoryID { return CategoryID(uuid.NewString()) }

// Icon is a symbolic icon name from a fixed set.
type Icon string

const (
	IconBriefcase    Icon = "briefcase"
	IconUser         Icon = "user"
	IconShoppingCart Icon = "shopping-cart"
	IconHeart        Icon = "heart"
	IconBook         Icon = "book"
	IconStar         Icon = "star"
	IconHome         Icon = "home"
	IconCode         Icon = "code"
)

var icons = []Icon{IconBriefcase, IconUser, IconShoppingCart, IconHeart, IconBook, IconStar, IconHome, IconCode}

func (i Icon) Valid() bool { return slices.Contains(icons, i) }

type Category struct {
	ID       CategoryID `json:"id"`
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	Icon     Icon       `json:"icon"`
	IsCustom bool       `json:"isCustom,omitempty"`
}

func DefaultCategories() []Category {
	return []Category{
		{ID: "work", Name: "Work", Color: "#3b82f6", Icon: IconBriefcase},
		{ID: "personal", Name: "Personal", Color: "#a855f7", Icon: IconUser},
		{ID: "shopping", Name: "Shopping", Color: "#f97316", Icon: IconShoppingCart},
		{ID: "health", Name: "Health", Color: "#ef4444", Icon: IconHeart},
	}
}

func CategoryIndex(cats []Category, id CategoryID) int {
	return slices.IndexFunc(cats, func(c Category) bool { return c.ID == id })
}
