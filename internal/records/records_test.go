package records

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequiredYears(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"3+ years", 3},
		{"Minimum 5 years, ideally 7", 5},
		{NotSpecified, 0},
		{"", 0},
		{"several years", 0},
		{"99999999999999999999999 years", 0},
	}

	for _, tt := range tests {
		if got := RequiredYears(tt.text); got != tt.want {
			t.Fatalf("RequiredYears(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestJobNormalizeDedupesSkillsCaseInsensitive(t *testing.T) {
	job := &JobRecord{
		MustHaveSkills:   []string{"Python", " python ", "SQL", "", "sql"},
		GoodToHaveSkills: []string{"Docker"},
	}
	job.Normalize()

	if len(job.MustHaveSkills) != 2 || job.MustHaveSkills[0] != "Python" || job.MustHaveSkills[1] != "SQL" {
		t.Fatalf("unexpected must-have skills: %#v", job.MustHaveSkills)
	}
	if job.ExperienceRequired != NotSpecified {
		t.Fatalf("expected default experience requirement, got %q", job.ExperienceRequired)
	}
}

func TestDecodeResumeWeakInput(t *testing.T) {
	resume, err := DecodeResume(map[string]any{
		"id":     42,
		"name":   "Jane",
		"skills": "Python, SQL ,Docker",
		"education": []any{
			"B.Tech Computer Science",
			map[string]any{"degree": "M.Sc Data Science", "year": 2021, "gpa": "9.1"},
		},
		"experience": []any{
			map[string]any{"company": "Acme"},
			map[string]any{"company": "Globex"},
		},
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resume.ID != "42" {
		t.Fatalf("expected id 42, got %q", resume.ID)
	}
	if len(resume.Skills) != 3 || resume.Skills[1] != "SQL" {
		t.Fatalf("unexpected skills: %#v", resume.Skills)
	}
	degrees := resume.Degrees()
	if len(degrees) != 2 || degrees[0] != "B.Tech Computer Science" {
		t.Fatalf("unexpected degrees: %#v", degrees)
	}
	if resume.Education[1].Year != "2021" {
		t.Fatalf("expected year 2021, got %q", resume.Education[1].Year)
	}
	if resume.Education[1].Extra["gpa"] != "9.1" {
		t.Fatalf("expected extra gpa, got %#v", resume.Education[1].Extra)
	}
	if len(resume.Experience) != 2 {
		t.Fatalf("expected 2 experience entries, got %d", len(resume.Experience))
	}
}

func TestDecodeResumeExperienceAsText(t *testing.T) {
	resume, err := DecodeResume(map[string]any{
		"experience": []any{
			"Software Engineer at Acme 2019-2022",
			"Intern at Foo",
			map[string]any{"company": "Globex"},
		},
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resume.Experience) != 3 {
		t.Fatalf("expected 3 experience entries, got %d", len(resume.Experience))
	}
	if resume.Experience[0]["position"] != "Software Engineer at Acme 2019-2022" {
		t.Fatalf("unexpected first entry: %#v", resume.Experience[0])
	}
	if resume.Experience[2]["company"] != "Globex" {
		t.Fatalf("unexpected last entry: %#v", resume.Experience[2])
	}
}

func TestDecodeJobExperienceAsNumber(t *testing.T) {
	job, err := DecodeJob(map[string]any{
		"title":               "Data Engineer",
		"must_have_skills":    []any{"Python", "Spark"},
		"experience_required": 3,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.ExperienceRequired != "3" || RequiredYears(job.ExperienceRequired) != 3 {
		t.Fatalf("unexpected experience requirement %q", job.ExperienceRequired)
	}
	if len(job.GoodToHaveSkills) != 0 {
		t.Fatalf("expected no good-to-have skills, got %#v", job.GoodToHaveSkills)
	}
}

func TestLoadResumesDirectoryOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yaml"), "name: Bob\nskills:\n  - Go\n")
	writeFile(t, filepath.Join(dir, "a.json"), `{"id":"alice","skills":["Python"]}`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	resumes, err := LoadResumes(dir, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ids := resumes.IDs()
	if len(ids) != 2 || ids[0] != "alice" || ids[1] != "b" {
		t.Fatalf("unexpected ids: %#v", ids)
	}
	if resumes.FindByID("b").Name != "Bob" {
		t.Fatalf("expected Bob for id b")
	}
	if resumes.FindByID("missing") != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

func TestLoadResumesSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"id":"alice","skills":["Python"]}`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"id":`)
	writeFile(t, filepath.Join(dir, "c.yaml"), "name: Carol\nexperience:\n  - Engineer at Acme\n  - Intern\n")
	writeFile(t, filepath.Join(dir, "d.json"), `{"education": [42]}`)

	core, observed := observer.New(zap.WarnLevel)
	resumes, err := LoadResumes(dir, zap.New(core))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ids := resumes.IDs()
	if len(ids) != 2 || ids[0] != "alice" || ids[1] != "c" {
		t.Fatalf("unexpected ids: %#v", ids)
	}
	if got := len(resumes.FindByID("c").Experience); got != 2 {
		t.Fatalf("expected 2 experience entries for c, got %d", got)
	}

	skipped := observed.FilterMessage("skipping resume file").All()
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped files, got %d", len(skipped))
	}
	if skipped[0].ContextMap()["filename"] != "b.json" || skipped[1].ContextMap()["filename"] != "d.json" {
		t.Fatalf("unexpected skipped files: %v, %v", skipped[0].ContextMap(), skipped[1].ContextMap())
	}
}

func TestLoadResumesSingleBrokenFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	writeFile(t, path, `{"id":`)

	if _, err := LoadResumes(path, nil); err == nil {
		t.Fatalf("expected error for a broken single file")
	}
}

func TestLoadJobFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	writeFile(t, path, "title: x")

	if _, err := LoadJobFile(path); err == nil {
		t.Fatalf("expected error for unsupported file type")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
