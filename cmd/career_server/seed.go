package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/db"
)

// seedSource tags seeded postings so --reset can replace them without
// touching collected data.
const seedSource = "seed"

// seedFileSchema validates a postings JSON file before anything reaches
// the database.
const seedFileSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["role_name", "posted_at"],
		"properties": {
			"role_name": {"type": "string", "minLength": 1},
			"skills": {"type": "array", "items": {"type": "string"}},
			"salary": {"type": "number", "minimum": 0},
			"location": {"type": "string"},
			"posted_at": {"type": "string", "format": "date-time"}
		}
	}
}`

var (
	seedCount  int
	seedMonths int
	seedRandom int64
	seedFile   string
	seedReset  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with job postings",
	Long: `Seed the postings table, either from a JSON file or with a
deterministic synthetic corpus useful for local development.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "postings", 500, "Number of synthetic postings to generate")
	seedCmd.Flags().IntVar(&seedMonths, "months", 12, "How many months of history to spread postings over")
	seedCmd.Flags().Int64Var(&seedRandom, "seed", 42, "Random seed for the synthetic generator")
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Load postings from a JSON file instead of generating")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete previously seeded postings first")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.InitSchema(ctx); err != nil {
		return err
	}

	if seedReset {
		deleted, err := database.DeletePostingsBySource(ctx, seedSource)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d previously seeded postings\n", deleted)
	}

	var postings []corpus.Posting
	if seedFile != "" {
		postings, err = loadSeedFile(seedFile)
	} else {
		postings = generatePostings(seedCount, seedMonths, seedRandom, time.Now().UTC())
	}
	if err != nil {
		return err
	}

	inserted, err := database.InsertPostings(ctx, postings)
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d postings (%d duplicates skipped)\n", inserted, len(postings)-inserted)
	return nil
}

// seedPosting is the JSON file shape.
type seedPosting struct {
	RoleName string   `json:"role_name"`
	Skills   []string `json:"skills"`
	Salary   float64  `json:"salary"`
	Location string   `json:"location"`
	PostedAt string   `json:"posted_at"`
}

// loadSeedFile reads and schema-validates a postings file.
func loadSeedFile(path string) ([]corpus.Posting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedFileSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate seed file: %w", err)
	}
	if !result.Valid() {
		msg := "seed file is invalid:"
		for _, desc := range result.Errors() {
			msg += fmt.Sprintf("\n  %s", desc)
		}
		return nil, fmt.Errorf("%s", msg)
	}

	var raw []seedPosting
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	postings := make([]corpus.Posting, 0, len(raw))
	for i, sp := range raw {
		postedAt, err := time.Parse(time.RFC3339, sp.PostedAt)
		if err != nil {
			return nil, fmt.Errorf("posting %d: invalid posted_at %q: %w", i, sp.PostedAt, err)
		}
		postings = append(postings, corpus.Posting{
			ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("seedfile:%s:%d", path, i))),
			RoleName: sp.RoleName,
			Skills:   sp.Skills,
			Salary:   sp.Salary,
			Location: sp.Location,
			PostedAt: postedAt.UTC(),
			Source:   seedSource,
		})
	}
	return postings, nil
}

// roleTemplate drives the synthetic generator.
type roleTemplate struct {
	name       string
	baseSalary float64
	skills     []string
}

var seedTemplates = []roleTemplate{
	{"Software Engineer", 120000, []string{"Python", "Go", "JavaScript", "SQL", "Git", "Docker", "REST API", "Communication"}},
	{"Senior Software Engineer", 155000, []string{"Python", "Go", "Kubernetes", "AWS", "SQL", "Docker", "Microservices", "Leadership", "Mentoring"}},
	{"Data Scientist", 135000, []string{"Python", "Machine Learning", "SQL", "Pandas", "TensorFlow", "Statistics", "Communication"}},
	{"Machine Learning Engineer", 150000, []string{"Python", "Machine Learning", "TensorFlow", "PyTorch", "Kubernetes", "AWS", "Docker"}},
	{"Frontend Developer", 110000, []string{"JavaScript", "TypeScript", "React", "CSS", "HTML", "Git", "Communication"}},
	{"Backend Developer", 125000, []string{"Go", "Python", "PostgreSQL", "Redis", "Docker", "REST API", "Microservices"}},
	{"DevOps Engineer", 130000, []string{"Kubernetes", "Docker", "AWS", "Terraform", "CI/CD", "Linux", "Python"}},
	{"Data Engineer", 130000, []string{"Python", "SQL", "Spark", "Kafka", "AWS", "Airflow", "PostgreSQL"}},
	{"Full Stack Developer", 118000, []string{"JavaScript", "TypeScript", "React", "Node.js", "PostgreSQL", "Docker", "Git"}},
	{"Product Manager", 140000, []string{"Communication", "Leadership", "Agile", "SQL", "Problem Solving", "Stakeholder Management"}},
}

var seedLocations = []string{
	"San Francisco, CA", "New York, NY", "Seattle, WA", "Austin, TX",
	"Chicago, IL", "Denver, CO", "Remote",
}

// generatePostings builds a reproducible synthetic corpus. The same seed,
// count and reference time always produce the same postings.
func generatePostings(count, months int, seed int64, now time.Time) []corpus.Posting {
	rng := rand.New(rand.NewSource(seed))
	postings := make([]corpus.Posting, 0, count)

	for i := 0; i < count; i++ {
		tpl := seedTemplates[rng.Intn(len(seedTemplates))]

		// Skew postings toward recent months so trends show growth.
		age := rng.Float64() * rng.Float64() * float64(months)
		postedAt := now.AddDate(0, 0, -int(age*30))

		nSkills := 4 + rng.Intn(len(tpl.skills)-3)
		perm := rng.Perm(len(tpl.skills))
		skills := make([]string, 0, nSkills)
		for _, idx := range perm[:nSkills] {
			skills = append(skills, tpl.skills[idx])
		}

		salary := 0.0
		if rng.Float64() < 0.8 { // some postings never report pay
			salary = tpl.baseSalary * (0.8 + 0.4*rng.Float64())
		}

		postings = append(postings, corpus.Posting{
			ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("seed:%d:%d", seed, i))),
			RoleName: tpl.name,
			Skills:   skills,
			Salary:   salary,
			Location: seedLocations[rng.Intn(len(seedLocations))],
			PostedAt: postedAt,
			Source:   seedSource,
		})
	}
	return postings
}
