package config

// SiteConfig holds site-specific configuration for a single site.
// This allows customizing fetch behavior per site, e.g. for pages
// behind a consent or login wall.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when fetching this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this
	// site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Path overrides which page of the site is scanned. By default the
	// URL given on the command line is fetched as-is; some sites keep
	// their brand surface on a dedicated landing path.
	Path string `yaml:"path,omitempty"`
}

// File represents the structure of the .brandscan configuration file.
type File struct {
	// Sites maps site keys to their site-specific configurations.
	// Keys should be the bare host without protocol or www prefix
	// (e.g., "acme.example").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all
	// sites unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific site key.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(site string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[site]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if siteConfig.Path != "" {
			result.Path = siteConfig.Path
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
