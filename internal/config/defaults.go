package config

const (
	defaultProjectRoot         = "~/projects"
	defaultImageRoot           = "~/projects/images"
	defaultLogDir              = "~/.local/share/multishot/logs"
	defaultCacheTimeoutSeconds = 300
	defaultEpisodePattern      = `^Ep\d+$`
	defaultSequencePattern     = `^sq\d+$`
	defaultShotPattern         = `^SH\d+$`
	defaultDepartmentPattern   = `^[a-zA-Z][a-zA-Z0-9_]*$`
	defaultVersionPattern      = `^v\d+(?:_\d+)?$`
	defaultVersionLabel        = "v001"
	defaultFirstFrame          = 1001
	defaultLastFrame           = 1100
	defaultFarmPool            = "nuke"
	defaultFarmPriority        = 50
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"

	defaultSceneTemplate       = "{PROJ_ROOT}/{project}/all/scene"
	defaultNukeFilesTemplate   = "{PROJ_ROOT}/{project}/all/scene/{ep}/{seq}/{shot}/comp/version"
	defaultPublishTemplate     = "{IMG_ROOT}/{project}/all/scene/{ep}/{seq}/{shot}/{department}/publish/{version}"
	defaultCompRendersTemplate = "{IMG_ROOT}/{project}/all/scene/{ep}/{seq}/{shot}/comp/version"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectRoot: defaultProjectRoot,
			ImageRoot:   defaultImageRoot,
			LogDir:      defaultLogDir,
		},
		Scanner: Scanner{
			CacheTimeoutSeconds: defaultCacheTimeoutSeconds,
			EpisodePattern:      defaultEpisodePattern,
			SequencePattern:     defaultSequencePattern,
			ShotPattern:         defaultShotPattern,
			DepartmentPattern:   defaultDepartmentPattern,
			VersionPattern:      defaultVersionPattern,
		},
		Versions: Versions{
			DefaultLabel: defaultVersionLabel,
		},
		FrameRange: FrameRange{
			First: defaultFirstFrame,
			Last:  defaultLastFrame,
		},
		Farm: Farm{
			Pool:     defaultFarmPool,
			Priority: defaultFarmPriority,
		},
		Templates: Templates{
			Scene:       defaultSceneTemplate,
			NukeFiles:   defaultNukeFilesTemplate,
			Publish:     defaultPublishTemplate,
			CompRenders: defaultCompRendersTemplate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
