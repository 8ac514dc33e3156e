package models

// Skill is one entry of a profile's skill list. Proficiency and Category are
// optional and serialise as null when absent.
type Skill struct {
	Name        string  `json:"name"`
	Proficiency *string `json:"proficiency"`
	Category    *string `json:"category"`
}

type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type Project struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
	Description  string   `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// Profile is the CV of exactly one user. A saved profile replaces the
// previous one wholesale.
type Profile struct {
	ID         int64        `json:"id,omitempty"`
	UserID     int64        `json:"user_id"`
	Phone      string       `json:"phone"`
	Summary    string       `json:"summary"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
	Projects   []Project    `json:"projects"`
	Education  []Education  `json:"education"`
	CreatedAt  Timestamp    `json:"created_at,omitzero"`
	UpdatedAt  Timestamp    `json:"updated_at,omitzero"`
}

// ProfileInput is the body of POST /cv/profile and PUT /cv/profile/{id}.
type ProfileInput struct {
	UserID     int64        `json:"user_id"`
	Phone      string       `json:"phone"`
	Summary    string       `json:"summary"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
	Projects   []Project    `json:"projects"`
	Education  []Education  `json:"education"`
}

func (p *Profile) HasID() bool {
	return p != nil && p.ID != 0
}

// Clone returns a deep copy so callers can never reach into the copy held
// by the State Store.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p

	if p.Skills != nil {
		c.Skills = make([]Skill, len(p.Skills))
		for i, s := range p.Skills {
			c.Skills[i] = Skill{Name: s.Name, Proficiency: cloneString(s.Proficiency), Category: cloneString(s.Category)}
		}
	}
	if p.Experience != nil {
		c.Experience = append([]Experience{}, p.Experience...)
	}
	if p.Projects != nil {
		c.Projects = make([]Project, len(p.Projects))
		for i, pr := range p.Projects {
			c.Projects[i] = pr
			if pr.Technologies != nil {
				c.Projects[i].Technologies = append([]string{}, pr.Technologies...)
			}
		}
	}
	if p.Education != nil {
		c.Education = append([]Education{}, p.Education...)
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
