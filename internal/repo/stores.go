package repo

import (
	"gorm.io/gorm"

	"resume-api/internal/domain"
)

// Stores 汇总全部仓储，供 cmd 装配
type Stores struct {
	Users        domain.UserStore
	Skills       domain.SectionStore[domain.Skill]
	Educations   domain.SectionStore[domain.Education]
	Certificates domain.SectionStore[domain.Certificate]
	Experiences  domain.SectionStore[domain.Experience]
	Bios         domain.BioStore
}

// Models 需要迁移的全部模型
func Models() []any {
	return append([]any{&domain.User{}}, sectionModels()...)
}

func sectionModels() []any {
	return []any{&domain.Skill{}, &domain.Education{}, &domain.Certificate{}, &domain.Experience{}, &domain.Bio{}}
}

func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Users:        NewUserRepo(db),
		Skills:       NewSectionRepo[domain.Skill](db),
		Educations:   NewSectionRepo[domain.Education](db),
		Certificates: NewSectionRepo[domain.Certificate](db),
		Experiences:  NewSectionRepo[domain.Experience](db),
		Bios:         NewBioRepo(db),
	}
}

func NewMemoryStores() *Stores {
	skills := NewMemorySectionRepo[domain.Skill]()
	educations := NewMemorySectionRepo[domain.Education]()
	certificates := NewMemorySectionRepo[domain.Certificate]()
	experiences := NewMemorySectionRepo[domain.Experience]()
	bios := NewMemoryBioRepo()
	return &Stores{
		Users:        NewMemoryUserRepo(skills, educations, certificates, experiences, bios),
		Skills:       skills,
		Educations:   educations,
		Certificates: certificates,
		Experiences:  experiences,
		Bios:         bios,
	}
}
