package model

import "time"

// Config is the full runtime configuration. Company universes, keyword lists,
// and curated maps are data here, not constants in the code, so every source
// and the matcher can be exercised against swappable inputs.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Universe    UniverseConfig    `yaml:"universe" mapstructure:"universe"`
	Builder     BuilderConfig     `yaml:"builder" mapstructure:"builder"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound requests made by source adapters.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	CheckRobots  bool          `yaml:"check_robots" mapstructure:"check_robots"`
}

// CacheConfig controls the layered response cache used by the fetcher.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds adapter fan-out and politeness toward providers.
type ConcurrencyConfig struct {
	SourceWorkers     int           `yaml:"source_workers" mapstructure:"source_workers"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	PolitenessDelay   time.Duration `yaml:"politeness_delay" mapstructure:"politeness_delay"`
}

// StoreConfig locates the event store and fixes the retention window.
type StoreConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Cutoff string `yaml:"cutoff" mapstructure:"cutoff"` // earliest retained date, YYYY-MM-DD
}

// UniverseConfig locates the tracked-company list.
type UniverseConfig struct {
	CSVPath string `yaml:"csv_path" mapstructure:"csv_path"`
}

// BuilderConfig bounds candidate assembly.
type BuilderConfig struct {
	TitleMaxLen int `yaml:"title_max_len" mapstructure:"title_max_len"`
}

// SourcesConfig carries per-adapter settings. An empty Enabled list means
// run everything that is configured.
type SourcesConfig struct {
	Enabled  []string       `yaml:"enabled,omitempty" mapstructure:"enabled"`
	AdComm   AdCommConfig   `yaml:"adcomm" mapstructure:"adcomm"`
	Approval ApprovalConfig `yaml:"approvals" mapstructure:"approvals"`
	Labels   LabelsConfig   `yaml:"labels" mapstructure:"labels"`
	Newswire NewswireConfig `yaml:"newswire" mapstructure:"newswire"`
	Edgar    EdgarConfig    `yaml:"edgar" mapstructure:"edgar"`
	Trials   TrialsConfig   `yaml:"trials" mapstructure:"trials"`
}

// AdCommConfig targets the FDA advisory committee calendar page.
type AdCommConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// ApprovalConfig targets the openFDA drug application API.
type ApprovalConfig struct {
	URL   string `yaml:"url" mapstructure:"url"`
	Limit int    `yaml:"limit" mapstructure:"limit"`
}

// LabelsConfig targets the openFDA drug label API. KeyDrugs maps a company
// display name to the brand name queried for that company; openFDA needs
// precise brand-name queries, so the map is curated rather than derived.
type LabelsConfig struct {
	URL          string            `yaml:"url" mapstructure:"url"`
	KeyDrugs     map[string]string `yaml:"key_drugs" mapstructure:"key_drugs"`
	LookbackDays int               `yaml:"lookback_days" mapstructure:"lookback_days"`
}

// NewswireConfig lists RSS feeds and the regulatory keyword screen applied
// to entries before entity matching.
type NewswireConfig struct {
	Feeds    []FeedConfig `yaml:"feeds" mapstructure:"feeds"`
	Keywords []string     `yaml:"keywords" mapstructure:"keywords"`
}

// FeedConfig names one RSS feed.
type FeedConfig struct {
	URL  string `yaml:"url" mapstructure:"url"`
	Name string `yaml:"name" mapstructure:"name"`
}

// EdgarConfig targets SEC EDGAR 8-K indexes. CIKs maps company display names
// to SEC Central Index Keys.
type EdgarConfig struct {
	BaseURL      string            `yaml:"base_url" mapstructure:"base_url"`
	CIKs         map[string]string `yaml:"ciks" mapstructure:"ciks"`
	Keywords     []string          `yaml:"keywords" mapstructure:"keywords"`
	FilingCount  int               `yaml:"filing_count" mapstructure:"filing_count"`
	LookbackDays int               `yaml:"lookback_days" mapstructure:"lookback_days"`
}

// TrialsConfig targets the ClinicalTrials.gov v2 API.
type TrialsConfig struct {
	URL          string   `yaml:"url" mapstructure:"url"`
	Sponsors     []string `yaml:"sponsors" mapstructure:"sponsors"`
	Phases       []string `yaml:"phases" mapstructure:"phases"`
	PageSize     int      `yaml:"page_size" mapstructure:"page_size"`
	LookbackDays int      `yaml:"lookback_days" mapstructure:"lookback_days"`
}

// OutputConfig controls run reporting.
type OutputConfig struct {
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

// DefaultConfig returns the complete default configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "CatalystTracker/1.0 (+https://github.com/rxwatch/catalyst)",
			MaxBodyBytes: 4 << 20,
			CheckRobots:  true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".catalyst-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   6 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			SourceWorkers:     3,
			RequestsPerSecond: 2,
			Burst:             2,
			PolitenessDelay:   300 * time.Millisecond,
		},
		Store: StoreConfig{
			Path:   "data/data.json",
			Cutoff: "2024-01-01",
		},
		Universe: UniverseConfig{
			CSVPath: "data/companies.csv",
		},
		Builder: BuilderConfig{
			TitleMaxLen: 200,
		},
		Sources: SourcesConfig{
			AdComm: AdCommConfig{
				URL: "https://www.fda.gov/advisory-committees/advisory-committee-calendar",
			},
			Approval: ApprovalConfig{
				URL:   "https://api.fda.gov/drug/drugsfda.json",
				Limit: 100,
			},
			Labels: LabelsConfig{
				URL:          "https://api.fda.gov/drug/label.json",
				LookbackDays: 365,
				KeyDrugs: map[string]string{
					"Vertex Pharmaceuticals":    "Trikafta",
					"Gilead Sciences":           "Biktarvy",
					"Amgen":                     "Enbrel",
					"Biogen":                    "Tecfidera",
					"Regeneron Pharmaceuticals": "Eylea",
					"Moderna":                   "Spikevax",
					"BioNTech":                  "Comirnaty",
					"Alnylam Pharmaceuticals":   "Onpattro",
					"Sarepta Therapeutics":      "Exondys 51",
					"BioMarin Pharmaceutical":   "Vimizim",
					"Neurocrine Biosciences":    "Ingrezza",
					"Incyte Corporation":        "Jakafi",
					"Ultragenyx Pharmaceutical": "Crysvita",
					"Jazz Pharmaceuticals":      "Xyrem",
					"Exelixis":                  "Cabometyx",
					"United Therapeutics":       "Tyvaso",
				},
			},
			Newswire: NewswireConfig{
				Feeds: []FeedConfig{
					{URL: "https://www.globenewswire.com/RssFeed/subjectcode/14-Biotechnology/feedTitle/GlobeNewswire%20-%20Biotechnology", Name: "GlobeNewswire Biotech"},
					{URL: "https://www.globenewswire.com/RssFeed/subjectcode/15-Healthcare/feedTitle/GlobeNewswire%20-%20Healthcare", Name: "GlobeNewswire Healthcare"},
				},
				Keywords: []string{
					"PDUFA", "NDA", "BLA", "sNDA", "sBLA",
					"Target Action Date", "FDA Approval", "FDA Accepts",
					"Complete Response Letter", "CRL", "Priority Review",
					"Breakthrough Therapy", "Fast Track", "Rolling Submission",
					"Advisory Committee", "AdComm", "ODAC", "Phase 3",
				},
			},
			Edgar: EdgarConfig{
				BaseURL:      "https://www.sec.gov",
				FilingCount:  10,
				LookbackDays: 365,
				Keywords: []string{
					"PDUFA", "target action date", "FDA acceptance",
					"NDA acceptance", "BLA acceptance", "FDA has accepted",
					"FDA accepted", "complete response letter",
					"priority review", "new drug application",
					"biologics license application",
				},
				CIKs: map[string]string{
					"Vertex Pharmaceuticals":    "875320",
					"Gilead Sciences":           "882095",
					"Amgen":                     "318154",
					"Biogen":                    "875045",
					"Regeneron Pharmaceuticals": "872589",
					"Moderna":                   "1682852",
					"BioNTech":                  "1776985",
					"Alnylam Pharmaceuticals":   "1178670",
					"Sarepta Therapeutics":      "873303",
					"BioMarin Pharmaceutical":   "1048477",
					"Neurocrine Biosciences":    "914475",
					"Incyte Corporation":        "879169",
					"Jazz Pharmaceuticals":      "1232524",
					"Exelixis":                  "939767",
					"Ionis Pharmaceuticals":     "874015",
					"Cytokinetics":              "1061983",
					"Insmed":                    "1104506",
					"United Therapeutics":       "1082554",
					"Madrigal Pharmaceuticals":  "1157601",
					"argenx":                    "1697532",
					"Apellis Pharmaceuticals":   "1492422",
					"Krystal Biotech":           "1714899",
					"Blueprint Medicines":       "1597264",
					"Vanda Pharmaceuticals":     "1366868",
					"MannKind Corporation":      "899460",
					"Regenxbio":                 "1590877",
				},
			},
			Trials: TrialsConfig{
				URL:          "https://clinicaltrials.gov/api/v2/studies",
				PageSize:     20,
				LookbackDays: 180,
				Phases:       []string{"PHASE3", "PHASE4"},
				Sponsors: []string{
					"Vertex", "Gilead", "Amgen", "Biogen", "Regeneron",
					"Moderna", "BioNTech", "Alnylam", "Sarepta", "BioMarin",
					"Neurocrine", "Incyte", "Ultragenyx", "Jazz", "Exelixis",
					"Ionis", "Cytokinetics", "Insmed", "United Therapeutics",
					"Madrigal", "Ascendis", "argenx", "Apellis", "Krystal",
					"Blueprint", "Nuvalent", "Vanda", "MannKind", "Regenxbio",
				},
			},
		},
		Output: OutputConfig{
			Environment: "development",
		},
	}
}

// SourceEnabled reports whether the named source should run. An empty
// Enabled list enables every configured source.
func (c *Config) SourceEnabled(name string) bool {
	if len(c.Sources.Enabled) == 0 {
		return true
	}
	for _, n := range c.Sources.Enabled {
		if n == name {
			return true
		}
	}
	return false
}
