package classify

// techKeywords is the curated technology dictionary. Matching is a
// case-insensitive substring test over session text; every hit lands in the
// session's technology set. Extendable per install via config.
var techKeywords = []string{
	"rust", "python", "javascript", "typescript", "react", "vue", "angular",
	"nodejs", "express", "fastapi", "django", "flask", "next.js", "nuxt",
	"docker", "kubernetes", "aws", "gcp", "azure", "postgresql", "mysql",
	"mongodb", "redis", "git", "github", "gitlab", "ci/cd", "terraform",
	"ansible", "jenkins", "webpack", "vite", "babel", "eslint", "prettier",
	"jest", "pytest", "cargo", "npm", "yarn", "pip", "api", "rest", "graphql",
	"sql", "nosql", "html", "css", "sass", "scss", "tailwind", "bootstrap",
}

// Vocabulary behind the activity signals. Substring matches against
// lowercased user text.
var (
	problemWords = []string{
		"error", "bug", "issue", "problem", "fail", "broken", "not work",
		"doesn't work", "crash", "exception", "undefined", "panic",
		"stuck", "troubleshoot", "debug", "fix",
	}
	buildWords = []string{
		"implement", "create", "build", "add", "write", "refactor",
		"setup", "install", "configure", "deploy",
	}
	learnWords = []string{
		"learn", "understand", "explain", "how to", "what is", "why",
		"tutorial", "guide", "documentation", "example", "best practice",
	}
	reviewWords = []string{
		"review", "refactor", "clean up", "cleanup", "simplify",
		"lint", "style", "naming", "readability",
	}
)

// stopwords excluded from topic extraction. Short words are already
// filtered by length; these are the longer filler words that survive.
var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"what": true, "when": true, "where": true, "which": true, "would": true,
	"could": true, "should": true, "there": true, "their": true, "about": true,
	"then": true, "than": true, "them": true, "they": true, "been": true,
	"because": true, "into": true, "also": true, "just": true, "like": true,
	"want": true, "need": true, "make": true, "please": true, "does": true,
	"doesn": true, "will": true, "your": true, "here": true, "some": true,
	"only": true, "same": true, "more": true, "most": true, "other": true,
	"file": true, "files": true, "code": true, "using": true, "work": true,
	"works": true, "working": true, "thanks": true, "thank": true,
}
