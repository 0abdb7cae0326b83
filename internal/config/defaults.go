package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Telegram: TelegramConfig{
			Endpoint:       "https://api.telegram.org/bot",
			TimeoutSeconds: 15,
		},
		Cards: CardsConfig{
			TimeoutSeconds: 15,
		},
		Reply: ReplyConfig{
			SupportedIntents:           []string{"flood", "prep"},
			LanguageStrategy:           LanguageFromLocaleTag,
			ForceLanguageOnCardIntents: true,
			ForcedLanguage:             "en",
		},
		Locale: LocaleConfig{
			DefaultLanguage:   "en",
			DefaultRegionCode: "jbd",
			CountryCode:       "id",
			BundleDir:         "messages",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			WebhookPath: "/webhook/telegram",
			ReportPath:  "/webhook/report",
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Endpoint: "/metrics",
		},
	}
}
