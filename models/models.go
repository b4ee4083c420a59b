package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Session types for memorization records
const (
	SessionZiyadah  = "ziyadah"  // new material
	SessionMurajaah = "murajaah" // review
)

// Quality statuses a guru assigns to a session
const (
	QualityGood = "good"
	QualityFair = "fair"
	QualityPoor = "poor"
)

// User model
type User struct {
	BaseModel
	Username             string     `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password             string     `json:"-" gorm:"size:255;not null"`
	Email                string     `json:"email" gorm:"size:255;uniqueIndex"`
	Phone                string     `json:"phone" gorm:"size:20"`
	Role                 string     `json:"role" gorm:"size:50;not null;default:'santri';type:enum('admin','guru','santri')"` // admin, guru, santri
	Status               string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`
	Avatar               string     `json:"avatar" gorm:"size:500"`
	PasswordResetToken   string     `json:"-" gorm:"size:255"`
	PasswordResetExpires *time.Time `json:"-"`
	PasswordResetByAdmin bool       `json:"-" gorm:"default:false"`

	// Relationships
	Santri *Santri `json:"santri,omitempty" gorm:"foreignKey:UserID"`
	Guru   *Guru   `json:"guru,omitempty" gorm:"foreignKey:UserID"`
}

// Kelas model: a halaqah / cohort grouping of santri
type Kelas struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
	Active      bool   `json:"active" gorm:"default:true"`

	// Relationships
	Santris []Santri `json:"santris,omitempty" gorm:"foreignKey:KelasID"`
}

// Guru model: teacher profile attached to a user account
type Guru struct {
	BaseModel
	UserID   uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName string `json:"full_name" gorm:"size:200;not null"`
	NIP      string `json:"nip" gorm:"size:50"` // institutional staff number
	Gender   string `json:"gender" gorm:"size:20;type:enum('male','female')"`
	Phone    string `json:"phone" gorm:"size:20"`
	Active   bool   `json:"active" gorm:"default:true"`

	// Relationships
	User    User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Santris []Santri `json:"santris,omitempty" gorm:"foreignKey:GuruID"`
}

// Santri model: student profile attached to a user account.
// The user account is shared with the guardian for read access.
type Santri struct {
	BaseModel
	UserID        uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName      string     `json:"full_name" gorm:"size:200;not null"`
	NIS           string     `json:"nis" gorm:"size:50"` // institutional student number
	Gender        string     `json:"gender" gorm:"size:20;type:enum('male','female')"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	GuardianName  string     `json:"guardian_name" gorm:"size:200"`
	GuardianPhone string     `json:"guardian_phone" gorm:"size:20"`
	KelasID       *uint      `json:"kelas_id"`
	GuruID        *uint      `json:"guru_id"` // assigned memorization mentor
	Active        bool       `json:"active" gorm:"default:true"`

	// Relationships
	User  User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Kelas *Kelas `json:"kelas,omitempty" gorm:"foreignKey:KelasID"`
	Guru  *Guru  `json:"guru,omitempty" gorm:"foreignKey:GuruID"`
}

// Surah model: Quran chapter reference data, seeded once (1..114)
type Surah struct {
	ID         uint   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name       string `json:"name" gorm:"size:100;not null"`
	TotalAyahs int    `json:"total_ayahs" gorm:"not null"`
	Juz        int    `json:"juz" gorm:"not null"` // juz in which the surah begins
}

func (Surah) TableName() string {
	return "surahs"
}

// MasterTag model: categorized canned feedback comments
// (e.g. category "Tajwid", text "Kurang Dengung")
type MasterTag struct {
	BaseModel
	Category string `json:"category" gorm:"size:100;not null;index"`
	Text     string `json:"text" gorm:"size:200;not null"`
	Active   bool   `json:"active" gorm:"default:true"`
}

// MemorizationRecord model: one memorization session entry.
// At most one record may exist per (santri, session type, date); the unique
// index backs the reconciliation rule in services.RecordService.
// Hard-deleted, so no gorm.DeletedAt here.
type MemorizationRecord struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SantriID      uint      `json:"santri_id" gorm:"not null;uniqueIndex:idx_records_santri_type_date,priority:1"`
	GuruID        uint      `json:"guru_id" gorm:"not null;index"`
	SessionType   string    `json:"session_type" gorm:"size:20;not null;type:enum('ziyadah','murajaah');uniqueIndex:idx_records_santri_type_date,priority:2"`
	RecordDate    time.Time `json:"record_date" gorm:"type:date;not null;uniqueIndex:idx_records_santri_type_date,priority:3"`
	SurahID       uint      `json:"surah_id" gorm:"not null"`
	AyahStart     int       `json:"ayah_start" gorm:"not null"`
	AyahEnd       int       `json:"ayah_end" gorm:"not null"`
	QualityStatus string    `json:"quality_status" gorm:"size:20;not null;type:enum('good','fair','poor')"`
	// Notes accumulate across same-day merges (one 150-char note per
	// submission), so a fixed varchar would eventually truncate them.
	Notes         string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Santri Santri      `json:"santri,omitempty" gorm:"foreignKey:SantriID"`
	Guru   Guru        `json:"guru,omitempty" gorm:"foreignKey:GuruID"`
	Surah  Surah       `json:"surah,omitempty" gorm:"foreignKey:SurahID"`
	Tags   []RecordTag `json:"tags,omitempty" gorm:"foreignKey:RecordID"`
}

// RecordTag model: link between a record and a master tag. A record owns its
// tag rows outright; replacing tags deletes all rows and reinserts the new set.
type RecordTag struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	RecordID uint `json:"record_id" gorm:"not null;index"`
	TagID    uint `json:"tag_id" gorm:"not null"`

	// Relationships
	Tag MasterTag `json:"tag,omitempty" gorm:"foreignKey:TagID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"`
	Data    JSON       `json:"data,omitempty" gorm:"type:json"`
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"`
	Error       string    `json:"error" gorm:"type:text"`
}
