package skill

// Skill lives in the skills service. EmployeeID is a soft reference to an
// employee in the sibling service; nothing enforces it at the store level.
type Skill struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	EmployeeID int64 `gorm:"index"`
	SkillName  string
}
