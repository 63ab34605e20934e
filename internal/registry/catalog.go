package registry

// Built-in skill catalog. Weights reflect relative market demand and feed
// the matcher and salary aggregator; they are heuristic, not learned.

var technicalSkills = []struct {
	name   string
	weight float64
}{
	// Languages
	{"Python", 0.95},
	{"JavaScript", 0.90},
	{"TypeScript", 0.85},
	{"Java", 0.85},
	{"Go", 0.80},
	{"Rust", 0.70},
	{"C++", 0.75},
	{"C#", 0.75},
	{"Ruby", 0.60},
	{"PHP", 0.55},
	{"Swift", 0.60},
	{"Kotlin", 0.65},
	{"SQL", 0.85},
	// Frontend
	{"React", 0.90},
	{"Vue", 0.65},
	{"Angular", 0.70},
	{"HTML", 0.50},
	{"CSS", 0.50},
	{"Next.js", 0.70},
	// Backend
	{"Node.js", 0.80},
	{"Express", 0.60},
	{"Django", 0.65},
	{"Flask", 0.60},
	{"FastAPI", 0.65},
	{"Spring", 0.70},
	{"Rails", 0.55},
	{"GraphQL", 0.60},
	{"REST", 0.65},
	{"gRPC", 0.55},
	// Databases
	{"PostgreSQL", 0.80},
	{"MySQL", 0.70},
	{"MongoDB", 0.70},
	{"Redis", 0.70},
	{"Elasticsearch", 0.60},
	// Cloud & DevOps
	{"AWS", 0.90},
	{"Azure", 0.75},
	{"GCP", 0.75},
	{"Docker", 0.85},
	{"Kubernetes", 0.85},
	{"Terraform", 0.70},
	{"CI/CD", 0.65},
	{"Linux", 0.65},
	{"Git", 0.60},
	// Data & ML
	{"Machine Learning", 0.90},
	{"Deep Learning", 0.75},
	{"TensorFlow", 0.70},
	{"PyTorch", 0.75},
	{"Pandas", 0.65},
	{"NumPy", 0.60},
	{"Spark", 0.60},
	{"Kafka", 0.65},
	{"Airflow", 0.55},
	{"Statistics", 0.60},
	{"Data Engineering", 0.70},
	{"NLP", 0.60},
	// Practices
	{"Microservices", 0.70},
	{"Distributed Systems", 0.75},
	{"System Design", 0.70},
	{"Agile", 0.45},
	{"TDD", 0.50},
}

var softSkills = []struct {
	name   string
	weight float64
}{
	{"Communication", 0.60},
	{"Leadership", 0.65},
	{"Teamwork", 0.50},
	{"Collaboration", 0.50},
	{"Problem Solving", 0.60},
	{"Critical Thinking", 0.50},
	{"Adaptability", 0.45},
	{"Creativity", 0.40},
	{"Time Management", 0.45},
	{"Mentoring", 0.55},
	{"Stakeholder Management", 0.55},
	{"Presentation", 0.40},
	{"Negotiation", 0.40},
	{"Ownership", 0.50},
	{"Attention to Detail", 0.40},
	{"Decision Making", 0.50},
}

// skillAliases maps common spellings to catalog identities.
var skillAliases = map[string]string{
	"golang":                      "Go",
	"js":                          "JavaScript",
	"ts":                          "TypeScript",
	"node":                        "Node.js",
	"nodejs":                      "Node.js",
	"postgres":                    "PostgreSQL",
	"k8s":                         "Kubernetes",
	"ml":                          "Machine Learning",
	"reactjs":                     "React",
	"react.js":                    "React",
	"vuejs":                       "Vue",
	"vue.js":                      "Vue",
	"nextjs":                      "Next.js",
	"amazon web services":         "AWS",
	"google cloud":                "GCP",
	"google cloud platform":       "GCP",
	"mongo":                       "MongoDB",
	"elastic search":              "Elasticsearch",
	"tensor flow":                 "TensorFlow",
	"apache airflow":              "Airflow",
	"apache spark":                "Spark",
	"apache kafka":                "Kafka",
	"statistical analysis":        "Statistics",
	"natural language processing": "NLP",
	"continuous integration":      "CI/CD",
	"ci cd":                       "CI/CD",
	"test driven development":     "TDD",
	"restful":                     "REST",
	"rest apis":                   "REST",
	"rest api":                    "REST",
	"ruby on rails":               "Rails",
	"spring boot":                 "Spring",
	"problem-solving":             "Problem Solving",
	"team work":                   "Teamwork",
	"self starter":                "Ownership",
	"self-starter":                "Ownership",
}

// Default builds the registry from the built-in catalog.
// The catalog is static, so construction cannot fail; a failure here is a
// programming error in the tables above.
func Default() *Registry {
	skills := make([]Skill, 0, len(technicalSkills)+len(softSkills))
	for _, s := range technicalSkills {
		skills = append(skills, Skill{Name: s.name, Category: CategoryTechnical, Weight: s.weight})
	}
	for _, s := range softSkills {
		skills = append(skills, Skill{Name: s.name, Category: CategorySoft, Weight: s.weight})
	}
	r, err := New(skills, skillAliases)
	if err != nil {
		panic("registry: invalid built-in catalog: " + err.Error())
	}
	return r
}
