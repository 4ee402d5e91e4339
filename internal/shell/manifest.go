package shell

type ManifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
}

// Manifest is the web app manifest of the installable app.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Orientation     string         `json:"orientation"`
	Scope           string         `json:"scope"`
	Icons           []ManifestIcon `json:"icons"`
	Categories      []string       `json:"categories"`
}

func DefaultManifest() Manifest {
	return Manifest{
		Name:            "Gym Tracker - Workout Logger",
		ShortName:       "Gym Tracker",
		Description:     "Track your gym workouts, log exercises, and monitor your strength progress",
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#09090b",
		ThemeColor:      "#10b981",
		Orientation:     "portrait",
		Scope:           "/",
		Icons: []ManifestIcon{
			{Src: "/icon-192.png", Sizes: "192x192", Type: "image/png", Purpose: "any"},
			{Src: "/icon-512.png", Sizes: "512x512", Type: "image/png", Purpose: "any"},
		},
		Categories: []string{"health", "fitness", "lifestyle"},
	}
}
