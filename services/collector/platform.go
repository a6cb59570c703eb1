package collector

import (
	"fmt"
	"time"

	"dario.cat/mergo"
)

// stepTimeout bounds every wait for the next expected visual marker
// during login. Exceeding it fails the whole attempt for that
// platform on that run.
const stepTimeout = time.Second * 20

const (
	PlatformCato = "cato"
	PlatformUda  = "uda"
)

// Platform binds a portal to its login state machine and its scrape
// selectors. The set is closed but extensible: adding a platform means
// adding an entry here (or overriding via config), not new code paths.
type Platform struct {
	Name      string
	PortalURL string
	Auth      Authenticator
	Scrape    ScrapeSelectors
}

// PlatformOverride carries per-platform config overrides. Zero fields
// keep the built-in value; a non-empty selector chain replaces the
// default chain wholesale.
type PlatformOverride struct {
	PortalURL string          `json:"portal_url"`
	Login     LoginSelectors  `json:"login"`
	Scrape    ScrapeSelectors `json:"scrape"`
}

// platformSpec is the buildable form of a platform: selectors as plain
// data, before they are bound into an Authenticator.
type platformSpec struct {
	name      string
	portalURL string
	federated bool
	login     LoginSelectors
	scrape    ScrapeSelectors
}

func (s platformSpec) build() Platform {
	var auth Authenticator
	if s.federated {
		auth = FederatedLogin{Portal: s.portalURL, Selectors: s.login}
	} else {
		auth = ConsumerLogin{Portal: s.portalURL, Selectors: s.login}
	}
	return Platform{
		Name:      s.name,
		PortalURL: s.portalURL,
		Auth:      auth,
		Scrape:    s.scrape,
	}
}

func defaultSpecs() []platformSpec {
	return []platformSpec{
		{
			name:      PlatformCato,
			portalURL: "https://evea.ucacue.edu.ec/my/courses.php",
			federated: true,
			login: LoginSelectors{
				TriggerText:    "Microsoft",
				Identifier:     `input[name="loginfmt"]`,
				IdentifierNext: "#idSIButton9",
				Secret:         `input[name="passwd"]`,
				SecretNext:     "#idSIButton9",
				StayDecline:    "#idBtn_Back",
				StayAccept:     "#idSIButton9",
				Landing:        ".coursename, .coursebox",
			},
			scrape: ScrapeSelectors{
				CourseLinks: SelectorChain{
					".coursename a, .course_title a",
					".coursebox a",
				},
				Assignments: SelectorChain{
					".activity.assign, .modtype_assign",
					`a[title*='Tarea']`,
					".activity.activity",
				},
				AssignmentAncestor: ".activity",
				DueDates: SelectorChain{
					".activitydates",
					".dates",
				},
			},
		},
		{
			name:      PlatformUda,
			portalURL: "https://campus-virtual.uazuay.edu.ec/v241/",
			federated: false,
			login: LoginSelectors{
				TriggerText:    "Google",
				Identifier:     "#identifierId",
				IdentifierNext: "#identifierNext",
				Secret:         `input[name="password"]`,
				SecretNext:     "#passwordNext",
				Landing:        ".course, .coursebox, .course-title",
			},
			scrape: ScrapeSelectors{
				CourseLinks: SelectorChain{
					".course a, .coursename a, .course-title a",
				},
				Assignments: SelectorChain{
					".activity.assign, .modtype_assign",
					`a[title*='Tarea']`,
				},
				AssignmentAncestor: ".activity",
				DueDates: SelectorChain{
					".activitydates",
					".dates",
				},
			},
		},
	}
}

// DefaultPlatforms returns the two supported portals with the selector
// sets observed on their current markup.
func DefaultPlatforms() []Platform {
	specs := defaultSpecs()
	platforms := make([]Platform, 0, len(specs))
	for _, spec := range specs {
		platforms = append(platforms, spec.build())
	}
	return platforms
}

// ConfiguredPlatforms merges config overrides over the defaults, keyed
// by platform name, and rebuilds each login state machine from the
// merged selectors. Overrides naming an unknown platform are rejected
// so a typo does not silently keep stale selectors in play.
func ConfiguredPlatforms(overrides map[string]PlatformOverride) ([]Platform, error) {
	specs := defaultSpecs()
	known := map[string]bool{}
	for _, spec := range specs {
		known[spec.name] = true
	}
	for name := range overrides {
		if !known[name] {
			return nil, fmt.Errorf("selector override for unknown platform %q", name)
		}
	}

	platforms := make([]Platform, 0, len(specs))
	for _, spec := range specs {
		override, ok := overrides[spec.name]
		if ok {
			if override.PortalURL != "" {
				spec.portalURL = override.PortalURL
			}
			if err := mergo.Merge(&spec.login, override.Login, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merge login selectors for %q: %w", spec.name, err)
			}
			if err := mergo.Merge(&spec.scrape, override.Scrape, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merge scrape selectors for %q: %w", spec.name, err)
			}
		}
		platforms = append(platforms, spec.build())
	}
	return platforms, nil
}
