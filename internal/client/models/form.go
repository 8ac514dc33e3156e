package models

import "strings"

// FieldGroup is one repeatable form section (an experience, a project or an
// education entry) keyed by field name.
type FieldGroup map[string]string

// Field names of the repeatable profile sections.
const (
	FieldExperienceCompany     = "experience_company"
	FieldExperiencePosition    = "experience_position"
	FieldExperienceStartDate   = "experience_start_date"
	FieldExperienceEndDate     = "experience_end_date"
	FieldExperienceDescription = "experience_description"

	FieldProjectName         = "project_name"
	FieldProjectTechnologies = "project_technologies"
	FieldProjectDescription  = "project_description"

	FieldEducationInstitution = "education_institution"
	FieldEducationDegree      = "education_degree"
	FieldEducationStartDate   = "education_start_date"
	FieldEducationEndDate     = "education_end_date"
)

// SectionKind names a repeatable section of the profile form.
type SectionKind string

const (
	SectionExperience SectionKind = "experience"
	SectionProjects   SectionKind = "projects"
	SectionEducation  SectionKind = "education"
)

// SectionFields lists, in display order, the field names of each section.
var SectionFields = map[SectionKind][]string{
	SectionExperience: {FieldExperienceCompany, FieldExperiencePosition, FieldExperienceStartDate, FieldExperienceEndDate, FieldExperienceDescription},
	SectionProjects:   {FieldProjectName, FieldProjectTechnologies, FieldProjectDescription},
	SectionEducation:  {FieldEducationInstitution, FieldEducationDegree, FieldEducationStartDate, FieldEducationEndDate},
}

// ProfileForm is what a presentation layer collects for a profile save and
// what it is given back to display a profile.
type ProfileForm struct {
	Phone      string
	Summary    string
	Skills     string
	Experience []FieldGroup
	Projects   []FieldGroup
	Education  []FieldGroup
}

// hasData reports whether at least one of the given fields is non-empty.
func (g FieldGroup) hasData(fields []string) bool {
	for _, f := range fields {
		if g[f] != "" {
			return true
		}
	}
	return false
}

// Input converts the form into a request body for userID. Sections whose
// fields are all empty are dropped.
func (f ProfileForm) Input(userID int64) ProfileInput {
	in := ProfileInput{
		UserID:     userID,
		Phone:      f.Phone,
		Summary:    f.Summary,
		Skills:     ParseSkills(f.Skills),
		Experience: []Experience{},
		Projects:   []Project{},
		Education:  []Education{},
	}

	for _, g := range f.Experience {
		if !g.hasData(SectionFields[SectionExperience]) {
			continue
		}
		in.Experience = append(in.Experience, Experience{
			Company:     g[FieldExperienceCompany],
			Title:       g[FieldExperiencePosition],
			StartDate:   g[FieldExperienceStartDate],
			EndDate:     g[FieldExperienceEndDate],
			Description: g[FieldExperienceDescription],
		})
	}

	for _, g := range f.Projects {
		if !g.hasData(SectionFields[SectionProjects]) {
			continue
		}
		in.Projects = append(in.Projects, Project{
			Name:         g[FieldProjectName],
			Technologies: ParseTechnologies(g[FieldProjectTechnologies]),
			Description:  g[FieldProjectDescription],
		})
	}

	for _, g := range f.Education {
		if !g.hasData(SectionFields[SectionEducation]) {
			continue
		}
		in.Education = append(in.Education, Education{
			Institution: g[FieldEducationInstitution],
			Degree:      g[FieldEducationDegree],
			StartDate:   g[FieldEducationStartDate],
			EndDate:     g[FieldEducationEndDate],
		})
	}

	return in
}

// FormFromProfile is the inverse of ProfileForm.Input.
func FormFromProfile(p *Profile) ProfileForm {
	if p == nil {
		return ProfileForm{}
	}

	f := ProfileForm{
		Phone:   p.Phone,
		Summary: p.Summary,
		Skills:  FormatSkills(p.Skills),
	}
	for _, e := range p.Experience {
		f.Experience = append(f.Experience, FieldGroup{
			FieldExperienceCompany:     e.Company,
			FieldExperiencePosition:    e.Title,
			FieldExperienceStartDate:   e.StartDate,
			FieldExperienceEndDate:     e.EndDate,
			FieldExperienceDescription: e.Description,
		})
	}
	for _, pr := range p.Projects {
		f.Projects = append(f.Projects, FieldGroup{
			FieldProjectName:         pr.Name,
			FieldProjectTechnologies: strings.Join(pr.Technologies, ", "),
			FieldProjectDescription:  pr.Description,
		})
	}
	for _, e := range p.Education {
		f.Education = append(f.Education, FieldGroup{
			FieldEducationInstitution: e.Institution,
			FieldEducationDegree:      e.Degree,
			FieldEducationStartDate:   e.StartDate,
			FieldEducationEndDate:     e.EndDate,
		})
	}
	return f
}

// ParseSkills splits a comma-separated list into skills with no
// proficiency or category.
func ParseSkills(s string) []Skill {
	skills := []Skill{}
	for _, name := range splitList(s) {
		skills = append(skills, Skill{Name: name})
	}
	return skills
}

func FormatSkills(skills []Skill) string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func ParseTechnologies(s string) []string {
	return splitList(s)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
