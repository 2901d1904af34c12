package handlers

import "os"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	GTMContainerID   string // e.g. GTM-XXXXXXX
	Debug            bool
}

// Enabled reports whether any tag should be rendered.
func (a Analytics) Enabled() bool {
	return a.GA4MeasurementID != "" || a.GTMContainerID != ""
}

// LoadAnalyticsFromEnv builds Analytics from environment variables.
func LoadAnalyticsFromEnv() Analytics {
	return Analytics{
		GA4MeasurementID: os.Getenv("WYD_WEB_GA_MEASUREMENT_ID"),
		GTMContainerID:   os.Getenv("WYD_WEB_GTM_CONTAINER_ID"),
		Debug:            os.Getenv("WYD_WEB_ANALYTICS_DEBUG") != "",
	}
}
