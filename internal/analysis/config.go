package analysis

import "github.com/user/heater_analyzer_go/internal/parser"

// Config holds every threshold the pipeline uses. It is passed by value and
// never modified once a batch starts.
type Config struct {
	Channel string `yaml:"channel" envconfig:"CHANNEL" validate:"required"`

	// Sync window: the first sample above SyncLower opens it, the first sample
	// above SyncUpper closes it, SyncTarget is interpolated inside.
	SyncLower  float64 `yaml:"sync_lower" envconfig:"SYNC_LOWER"`
	SyncUpper  float64 `yaml:"sync_upper" envconfig:"SYNC_UPPER" validate:"gtfield=SyncTarget"`
	SyncTarget float64 `yaml:"sync_target" envconfig:"SYNC_TARGET" validate:"gtfield=SyncLower"`
	// TimeScale divides the rebased time column; 1000 turns raw milliseconds into seconds.
	TimeScale float64 `yaml:"time_scale" envconfig:"TIME_SCALE" validate:"gt=0"`

	PlateauWindow      int     `yaml:"plateau_window" envconfig:"PLATEAU_WINDOW" validate:"gte=1"`
	PlateauThreshold   float64 `yaml:"plateau_threshold" envconfig:"PLATEAU_THRESHOLD" validate:"gte=0"`
	PlateauMinTemp     float64 `yaml:"plateau_min_temp" envconfig:"PLATEAU_MIN_TEMP"`
	MinPlateauDuration float64 `yaml:"min_plateau_duration" envconfig:"MIN_PLATEAU_DURATION" validate:"gte=0"`

	// ReferenceTemp is the canonical high point of both ramps when the plateau exceeds it.
	ReferenceTemp     float64 `yaml:"reference_temp" envconfig:"REFERENCE_TEMP"`
	HeatingStartTemp  float64 `yaml:"heating_start_temp" envconfig:"HEATING_START_TEMP"`
	HeatingTargetTemp float64 `yaml:"heating_target_temp" envconfig:"HEATING_TARGET_TEMP"`
	CoolingEndTemp    float64 `yaml:"cooling_end_temp" envconfig:"COOLING_END_TEMP"`
	CoolingTargetTemp float64 `yaml:"cooling_target_temp" envconfig:"COOLING_TARGET_TEMP"`
}

// DefaultConfig returns the thresholds used for the standard heater test script.
func DefaultConfig() Config {
	return Config{
		Channel:            parser.MainChannel,
		SyncLower:          30,
		SyncUpper:          40,
		SyncTarget:         35,
		TimeScale:          1000,
		PlateauWindow:      100,
		PlateauThreshold:   0.5,
		PlateauMinTemp:     85,
		MinPlateauDuration: 50,
		ReferenceTemp:      95,
		HeatingStartTemp:   36,
		HeatingTargetTemp:  40,
		CoolingEndTemp:     38,
		CoolingTargetTemp:  40,
	}
}
