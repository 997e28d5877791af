package config

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidLLMConfig    = goerr.New("invalid LLM configuration")
	ErrInvalidSMTPConfig   = goerr.New("invalid SMTP configuration")
	ErrInvalidSlackConfig  = goerr.New("invalid Slack configuration")
	ErrInvalidCatalogFile  = goerr.New("invalid catalog file")
)
