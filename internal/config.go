package internal

import (
	"fmt"
	"sentiment-lab/errors"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	NumberOfWorkers int     `env:"NUMBER_OF_WORKERS,default=4" validate:"gte=1"`
	Threshold       float64 `env:"THRESHOLD,default=0.5" validate:"gte=0,lte=1"`
	ScorerKind      string  `env:"SCORER_KIND,default=forest" validate:"oneof=forest transformer"`

	ModelPath      string `env:"MODEL_PATH" validate:"required_if=ScorerKind forest"`
	EmbeddingsPath string `env:"EMBEDDINGS_PATH" validate:"required_if=ScorerKind forest"`

	SpecialistBinPath string        `env:"SPECIALIST_BIN_PATH"`
	SpecialistModel   string        `env:"SPECIALIST_MODEL"`
	SpecialistHost    string        `env:"SPECIALIST_HOST,default=localhost"`
	SpecialistPort    int           `env:"SPECIALIST_PORT,default=50061" validate:"gte=1,lte=65535"`
	SpecialistTimeout time.Duration `env:"SPECIALIST_TIMEOUT,default=10s"`

	EmoticonsPath     string `env:"EMOTICONS_PATH"`
	AbbreviationsPath string `env:"ABBREVIATIONS_PATH"`
	ContractionsPath  string `env:"CONTRACTIONS_PATH"`
	LemmasPath        string `env:"LEMMAS_PATH"`
	LexiconPath       string `env:"LEXICON_PATH"`
	StopWords         string `env:"STOP_WORDS"`

	TextColumn  int    `env:"TEXT_COLUMN,default=0" validate:"gte=0"`
	LabelColumn *int   `env:"LABEL_COLUMN"`
	Delimiter   string `env:"DELIMITER"`
	HasHeader   bool   `env:"HAS_HEADER,default=false"`
	Limit       int    `env:"LIMIT,default=0" validate:"gte=0"`

	Persist          bool          `env:"PERSIST,default=false"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH" validate:"required_if=Persist true"`
	BlugeFilepath    string        `env:"BLUGE_FILEPATH" validate:"required_if=Persist true"`
	LimitPredictions *int          `env:"LIMIT_PREDICTIONS"`
	BatchSize        int           `env:"BATCH_SIZE,default=100" validate:"gte=1"`
	BufferTimeout    time.Duration `env:"BUFFER_TIMEOUT,default=2s"`

	MonitorInterval time.Duration `env:"MONITOR_INTERVAL,default=0s"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	Colours         bool          `env:"COLOURS,default=true"`
	ShowPredictions int           `env:"SHOW_PREDICTIONS,default=10" validate:"gte=0"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	if _, err := config.DelimiterRune(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DelimiterRune defaults to a comma and understands an escaped tab.
func (c Config) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return ',', nil
	case `\t`:
		return '\t', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w, got %q", errors.ErrInvalidDelimiter, c.Delimiter)
	}
	return r[0], nil
}

// StopWordList splits the comma separated extra stop words.
func (c Config) StopWordList() []string {
	var words []string
	for _, w := range strings.Split(c.StopWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
