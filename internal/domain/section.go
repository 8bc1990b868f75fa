package domain

import (
	"context"
	"encoding/json"
)

// Record 简历模块实体的指针约束，泛型 service / repo 依赖这些方法
type Record[T any] interface {
	*T
	Key() uint
	SetKey(id uint)
	Owner() uint
	SetOwner(uid uint)
	// Normalize 就地清洗文本字段
	Normalize()
	// OrderBy 为列表 SQL 排序，Less 为同一顺序的内存实现
	OrderBy() string
	Less(other *T) bool
}

// Owned 各模块共有的主键与归属；user_id 只由服务端写入
type Owned struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user"`
}

func (o *Owned) Key() uint         { return o.ID }
func (o *Owned) SetKey(id uint)    { o.ID = id }
func (o *Owned) Owner() uint       { return o.UserID }
func (o *Owned) SetOwner(uid uint) { o.UserID = uid }

type SectionStore[T any] interface {
	List(ctx context.Context, owner uint) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Insert(ctx context.Context, m *T) error
	Update(ctx context.Context, m *T) error
	Delete(ctx context.Context, id uint) error
	DeleteByOwner(ctx context.Context, owner uint) error
	// Transaction 在同一事务内执行 fn
	Transaction(ctx context.Context, fn func(SectionStore[T]) error) error
}

type BioStore interface {
	GetByOwner(ctx context.Context, owner uint) (*Bio, error)
	// Upsert 无则插入，有则替换内容；返回是否新建
	Upsert(ctx context.Context, b *Bio) (bool, error)
	Delete(ctx context.Context, owner uint) error
}

type Skill struct {
	Owned
	Title string `gorm:"size:32;not null" json:"title" validate:"required,max=32"`
	Rate  int    `gorm:"not null" json:"rate" validate:"required,min=1,max=5"`
}

func (Skill) TableName() string { return "skills" }

func (s *Skill) Normalize()    { s.Title = CleanText(s.Title) }
func (*Skill) OrderBy() string { return "title ASC, id ASC" }
func (s *Skill) Less(o *Skill) bool {
	if s.Title != o.Title {
		return s.Title < o.Title
	}
	return s.ID < o.ID
}

type Education struct {
	Owned
	Institution string `gorm:"size:64;not null" json:"institution" validate:"required,max=64"`
	Degree      string `gorm:"size:32;not null" json:"degree" validate:"required,max=32"`
	StartDate   Date   `gorm:"not null" json:"start_date"`
	EndDate     *Date  `json:"end_date"`
}

func (Education) TableName() string { return "educations" }

// Graduated 有结束日期即视为已毕业
func (e *Education) Graduated() bool { return e.EndDate != nil }

// MarshalJSON 输出时附带派生字段 graduated
func (e Education) MarshalJSON() ([]byte, error) {
	type plain Education
	return json.Marshal(struct {
		plain
		Graduated bool `json:"graduated"`
	}{plain(e), e.Graduated()})
}

func (e *Education) Normalize() {
	e.Institution = CleanText(e.Institution)
	e.Degree = CleanText(e.Degree)
	e.EndDate = nilIfZero(e.EndDate)
}
func (*Education) OrderBy() string { return "start_date ASC, id ASC" }
func (e *Education) Less(o *Education) bool {
	if !e.StartDate.Equal(o.StartDate.Time) {
		return e.StartDate.Before(o.StartDate.Time)
	}
	return e.ID < o.ID
}

type Certificate struct {
	Owned
	IssuingAuthority string `gorm:"size:32;not null" json:"issuing_authority" validate:"required,max=32"`
	IssueDate        Date   `gorm:"not null" json:"issue_date"`
}

func (Certificate) TableName() string { return "certificates" }

func (c *Certificate) Normalize()    { c.IssuingAuthority = CleanText(c.IssuingAuthority) }
func (*Certificate) OrderBy() string { return "issue_date DESC, id ASC" }
func (c *Certificate) Less(o *Certificate) bool {
	if !c.IssueDate.Equal(o.IssueDate.Time) {
		return c.IssueDate.After(o.IssueDate.Time)
	}
	return c.ID < o.ID
}

type Experience struct {
	Owned
	Company     string `gorm:"size:32;not null" json:"company" validate:"required,max=32"`
	Position    string `gorm:"size:32;not null" json:"position" validate:"required,max=32"`
	StartDate   Date   `gorm:"not null" json:"start_date"`
	EndDate     *Date  `json:"end_date"`
	Description string `gorm:"size:500;not null" json:"description" validate:"required,max=500"`
}

func (Experience) TableName() string { return "experiences" }

// Present 无结束日期即为在职
func (e *Experience) Present() bool { return e.EndDate == nil }

func (e *Experience) Normalize() {
	e.Company = CleanText(e.Company)
	e.Position = CleanText(e.Position)
	e.Description = CleanRichText(e.Description)
	e.EndDate = nilIfZero(e.EndDate)
}
func (*Experience) OrderBy() string { return "start_date DESC, id ASC" }
func (e *Experience) Less(o *Experience) bool {
	if !e.StartDate.Equal(o.StartDate.Time) {
		return e.StartDate.After(o.StartDate.Time)
	}
	return e.ID < o.ID
}

// "end_date": "" 与 null 等价
func nilIfZero(d *Date) *Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

// Bio 每个用户至多一条
type Bio struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"uniqueIndex;not null" json:"user"`
	Content string `gorm:"type:text;not null" json:"content" validate:"required"`
}

func (Bio) TableName() string { return "bios" }

func (b *Bio) Normalize() { b.Content = CleanRichText(b.Content) }

// Resume 读取时组装，不落库
type Resume struct {
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Email        string        `json:"email"`
	PhoneNumber  string        `json:"phone_number"`
	Skills       []Skill       `json:"skills"`
	Educations   []Education   `json:"educations"`
	Certificates []Certificate `json:"certificates"`
	Experiences  []Experience  `json:"experiences"`
	Bio          *Bio          `json:"bio"`
}
