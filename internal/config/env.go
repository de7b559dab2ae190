package config

import (
	"github.com/JaimeStill/companion/internal/chat"
	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/database"
	"github.com/JaimeStill/companion/pkg/embedding"
	"github.com/JaimeStill/companion/pkg/llm"
	"github.com/JaimeStill/companion/pkg/sentiment"
	"github.com/JaimeStill/companion/pkg/storage"
)

var databaseEnv = &database.Env{
	Host:            "COMPANION_DB_HOST",
	Port:            "COMPANION_DB_PORT",
	Name:            "COMPANION_DB_NAME",
	User:            "COMPANION_DB_USER",
	Password:        "COMPANION_DB_PASSWORD",
	SSLMode:         "COMPANION_DB_SSL_MODE",
	MaxOpenConns:    "COMPANION_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "COMPANION_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "COMPANION_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "COMPANION_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "COMPANION_STORAGE_CONTAINER_NAME",
	ConnectionString: "COMPANION_STORAGE_CONNECTION_STRING",
	ServiceURL:       "COMPANION_STORAGE_SERVICE_URL",
	MaxListSize:      "COMPANION_STORAGE_MAX_LIST_SIZE",
}

var llmEnv = &llm.Env{
	Provider:    "COMPANION_LLM_PROVIDER",
	Model:       "COMPANION_LLM_MODEL",
	BaseURL:     "COMPANION_LLM_BASE_URL",
	Token:       "COMPANION_LLM_TOKEN",
	APIVersion:  "COMPANION_LLM_API_VERSION",
	Temperature: "COMPANION_LLM_TEMPERATURE",
	Timeout:     "COMPANION_LLM_TIMEOUT",
}

var embeddingEnv = &embedding.Env{
	Provider:          "COMPANION_EMBEDDING_PROVIDER",
	Model:             "COMPANION_EMBEDDING_MODEL",
	Dimensions:        "COMPANION_EMBEDDING_DIMENSIONS",
	APIKey:            "COMPANION_EMBEDDING_API_KEY",
	BaseURL:           "COMPANION_EMBEDDING_BASE_URL",
	RequestsPerSecond: "COMPANION_EMBEDDING_REQUESTS_PER_SECOND",
}

var sentimentEnv = &sentiment.Env{
	Provider: "COMPANION_SENTIMENT_PROVIDER",
	Language: "COMPANION_SENTIMENT_LANGUAGE",
}

var intentEnv = &intent.Env{
	ArtifactRoot: "COMPANION_INTENT_ARTIFACT_ROOT",
	Classifier:   "COMPANION_INTENT_CLASSIFIER",
	Matcher:      "COMPANION_INTENT_MATCHER",
	Watch:        "COMPANION_INTENT_WATCH",
}

var chatEnv = &chat.Env{
	HistoryTurns:   "COMPANION_CHAT_HISTORY_TURNS",
	MaxInputRunes:  "COMPANION_CHAT_MAX_INPUT_RUNES",
	DecideOn:       "COMPANION_CHAT_DECIDE_ON",
	Style:          "COMPANION_CHAT_STYLE",
	TranscriptPath: "COMPANION_CHAT_TRANSCRIPT_PATH",
}
