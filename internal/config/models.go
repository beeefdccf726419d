package config

// AdvisoryConfig represents the configuration for the advisory assistant
type AdvisoryConfig struct {
	Enabled  bool
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region          string
	ModelID         string
	MaxTokens       int
	Temperature     float32
	TopP            float32
	MaxQuestionSize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey          string
	ModelName       string
	MaxTokens       int
	Temperature     float32
	TopP            float32
	MaxQuestionSize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey          string
	ModelName       string
	MaxTokens       int
	Temperature     float32
	TopP            float32
	MaxQuestionSize int
}

// HTTPConfig represents the configuration for the HTTP frontend
type HTTPConfig struct {
	ListenAddress  string
	AllowedOrigins []string
	ReadTimeout    string
	WriteTimeout   string
	MaxBodyBytes   int
}

// SMTPConfig represents the configuration for the SMTP content filter
type SMTPConfig struct {
	ListenAddress  string
	BlockCritical  bool
	RiskHeader     string
	ScoreHeader    string
	ReasonHeader   string
	PostfixAddress string
	PostfixPort    int
	PostfixEnabled bool
	SubjectPrefix  string
	ModifySubject  bool
}

// GetAdvisory returns the advisory configuration
func (c *Config) GetAdvisory() AdvisoryConfig {
	return AdvisoryConfig{
		Enabled:  c.GetBool("advisory.enabled"),
		Provider: c.GetString("advisory.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:          c.GetString("bedrock.region"),
		ModelID:         c.GetString("bedrock.model_id"),
		MaxTokens:       c.GetInt("bedrock.max_tokens"),
		Temperature:     float32(c.GetFloat64("bedrock.temperature")),
		TopP:            float32(c.GetFloat64("bedrock.top_p")),
		MaxQuestionSize: c.GetInt("bedrock.max_question_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:          c.GetString("gemini.api_key"),
		ModelName:       c.GetString("gemini.model_name"),
		MaxTokens:       c.GetInt("gemini.max_tokens"),
		Temperature:     float32(c.GetFloat64("gemini.temperature")),
		TopP:            float32(c.GetFloat64("gemini.top_p")),
		MaxQuestionSize: c.GetInt("gemini.max_question_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:          c.GetString("openai.api_key"),
		ModelName:       c.GetString("openai.model_name"),
		MaxTokens:       c.GetInt("openai.max_tokens"),
		Temperature:     float32(c.GetFloat64("openai.temperature")),
		TopP:            float32(c.GetFloat64("openai.top_p")),
		MaxQuestionSize: c.GetInt("openai.max_question_size"),
	}
}

// GetHTTP returns the HTTP frontend configuration
func (c *Config) GetHTTP() HTTPConfig {
	return HTTPConfig{
		ListenAddress:  c.GetString("server.http.listen_address"),
		AllowedOrigins: c.GetStringSlice("server.http.allowed_origins"),
		ReadTimeout:    c.GetString("server.http.read_timeout"),
		WriteTimeout:   c.GetString("server.http.write_timeout"),
		MaxBodyBytes:   c.GetInt("server.http.max_body_bytes"),
	}
}

// GetSMTP returns the SMTP content-filter configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		ListenAddress:  c.GetString("server.smtp.listen_address"),
		BlockCritical:  c.GetBool("server.smtp.block_critical"),
		RiskHeader:     c.GetString("server.smtp.headers.risk"),
		ScoreHeader:    c.GetString("server.smtp.headers.score"),
		ReasonHeader:   c.GetString("server.smtp.headers.reason"),
		PostfixAddress: c.GetString("server.smtp.postfix.address"),
		PostfixPort:    c.GetInt("server.smtp.postfix.port"),
		PostfixEnabled: c.GetBool("server.smtp.postfix.enabled"),
		SubjectPrefix:  c.GetString("server.smtp.subject_prefix"),
		ModifySubject:  c.GetBool("server.smtp.modify_subject"),
	}
}
