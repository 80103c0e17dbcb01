// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3320)
  - SurveyAPIURL: Base URL of the survey backend (required)
  - SessionSecret: HMAC secret for session tokens and page cookies (required)
  - PageIdleTimeout: Idle time before a mounted page is unmounted (default: 30m)
  - APITimeout: Timeout for backend reads (default: 10s)
  - OTelEndpoint: OTLP/HTTP trace endpoint (optional)

# Sources

Values are read in three layers, later layers win:

 1. A dotenv file (ENV_FILE, default .env), loaded with godotenv. Missing files are ignored
    and variables already present in the environment are not overwritten.
 2. Environment variables, parsed with caarlos0/env (defaults from envDefault tags).
 3. CLI flags.

# CLI Flags

	-p               Server port
	-api             Survey backend base URL
	-api-timeout     Backend read timeout
	-idle            Page idle timeout
	-otel            OTLP/HTTP endpoint
	-session-secret  Session secret

# Environment Variables

	PORT              → -p
	SURVEY_API_URL    → -api
	API_TIMEOUT       → -api-timeout
	PAGE_IDLE_TIMEOUT → -idle
	OTEL_ENDPOINT     → -otel
	SESSION_SECRET    → -session-secret

# Validation

ParseFlags returns an error if required values are missing:

  - SURVEY_API_URL must be provided
  - SESSION_SECRET must be provided
*/
package cliparse
