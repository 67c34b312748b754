package skill

type SkillDTO struct {
	ID         int64  `json:"id,omitempty"`
	EmployeeID int64  `json:"employeeId"`
	SkillName  string `json:"skillName" binding:"required"`
}

func toEntity(d SkillDTO) Skill {
	return Skill{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		SkillName:  d.SkillName,
	}
}

func fromEntity(s Skill) SkillDTO {
	return SkillDTO{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		SkillName:  s.SkillName,
	}
}

func fromEntities(skills []Skill) []SkillDTO {
	res := make([]SkillDTO, len(skills))
	for i, s := range skills {
		res[i] = fromEntity(s)
	}
	return res
}
