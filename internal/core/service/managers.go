package service

import (
	"github.com/rs/zerolog"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
	"github.com/autochef0332/autochef/internal/core/ports"
)

type (
	SectionManager = ordering.Manager[domain.MenuSection, domain.SectionFields, domain.SectionPatch]
	ItemManager    = ordering.Manager[domain.MenuItem, domain.ItemFields, domain.ItemPatch]
)

// ManagerDeps are the collaborators shared by the section and item collections.
type ManagerDeps struct {
	Locker  ordering.Locker
	Workers int
	Logger  zerolog.Logger
}

func NewSectionManager(repo ports.SectionRepository, cache ordering.Cache[domain.MenuSection], deps ManagerDeps) *SectionManager {
	return ordering.NewManager(ordering.Config[domain.MenuSection, domain.SectionFields, domain.SectionPatch]{
		Kind:           string(domain.EntitySection),
		Repo:           repo,
		Locker:         deps.Locker,
		Cache:          cache,
		Workers:        deps.Workers,
		ValidateCreate: domain.SectionFields.Validate,
		ValidatePatch:  domain.SectionPatch.Validate,
		Logger:         deps.Logger,
	})
}

func NewItemManager(repo ports.ItemRepository, cache ordering.Cache[domain.MenuItem], deps ManagerDeps) *ItemManager {
	return ordering.NewManager(ordering.Config[domain.MenuItem, domain.ItemFields, domain.ItemPatch]{
		Kind:           string(domain.EntityItem),
		Repo:           repo,
		Locker:         deps.Locker,
		Cache:          cache,
		Workers:        deps.Workers,
		ValidateCreate: domain.ItemFields.Validate,
		ValidatePatch:  domain.ItemPatch.Validate,
		Logger:         deps.Logger,
	})
}
