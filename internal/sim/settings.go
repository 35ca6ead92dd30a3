package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"
)

// WaveSetting is one wave component as authored in the config file.
type WaveSetting struct {
	Amplitude  float64    `mapstructure:"amplitude"`
	Wavelength float64    `mapstructure:"wavelength"`
	Speed      float64    `mapstructure:"speed"`
	Direction  [2]float64 `mapstructure:"direction"`
}

// TrackSetting describes the road centerline and strip.
type TrackSetting struct {
	ControlPoints  [][3]float64 `mapstructure:"control_points"`
	Closed         bool         `mapstructure:"closed"`
	Resolution     int          `mapstructure:"resolution"`
	Width          float64      `mapstructure:"width"`
	WidthSegments  int          `mapstructure:"width_segments"`
	LengthSegments int          `mapstructure:"length_segments"`
}

// TuningSetting overrides the attachment defaults from config.go.
type TuningSetting struct {
	DetectionDistance  float64 `mapstructure:"detection_distance"`
	AlignmentThreshold float64 `mapstructure:"alignment_threshold"`
	AlignmentSpeed     float64 `mapstructure:"alignment_speed"`
	SmoothTime         float64 `mapstructure:"smooth_time"`
	SuctionForce       float64 `mapstructure:"suction_force"`
	HoverEnabled       bool    `mapstructure:"hover_enabled"`
	HoverHeight        float64 `mapstructure:"hover_height"`
	HoverForce         float64 `mapstructure:"hover_force"`
	SlamThreshold      float64 `mapstructure:"slam_threshold"`
	SlamForce          float64 `mapstructure:"slam_force"`
}

// Settings is the full authored configuration of a run.
type Settings struct {
	Track  TrackSetting  `mapstructure:"track"`
	Waves  []WaveSetting `mapstructure:"waves"`
	Tuning TuningSetting `mapstructure:"tuning"`
}

// LoadSettings reads waverider.yaml from the given directory (defaults when
// the file is missing) and sanitizes the result. Sanitization problems are
// returned as warnings, once, here; the returned settings are always usable.
func LoadSettings(configDir string) (Settings, []string, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("waverider")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		// A missing file just means defaults; anything else is reported.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Settings{}, nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	warnings := s.sanitize()
	return s, warnings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("track.control_points", [][3]float64{
		{-60, 0, -60}, {60, 0, -60}, {60, 0, 60}, {-60, 0, 60},
	})
	v.SetDefault("track.closed", true)
	v.SetDefault("track.resolution", CurveResolution)
	v.SetDefault("track.width", DefaultRoadWidth)
	v.SetDefault("track.width_segments", DefaultWidthSegments)
	v.SetDefault("track.length_segments", DefaultLengthSegments)

	v.SetDefault("waves", []map[string]any{
		{"amplitude": 1.5, "wavelength": 24.0, "speed": 0.35, "direction": []float64{0, 1}},
		{"amplitude": 0.6, "wavelength": 9.0, "speed": 0.8, "direction": []float64{1, 0.4}},
		{"amplitude": 0.25, "wavelength": 4.0, "speed": 1.6, "direction": []float64{-0.5, 1}},
	})

	v.SetDefault("tuning.detection_distance", DetectionDistance)
	v.SetDefault("tuning.alignment_threshold", AlignmentThreshold)
	v.SetDefault("tuning.alignment_speed", AlignmentSpeed)
	v.SetDefault("tuning.smooth_time", UpSmoothTime)
	v.SetDefault("tuning.suction_force", SuctionForce)
	v.SetDefault("tuning.hover_enabled", false)
	v.SetDefault("tuning.hover_height", HoverHeight)
	v.SetDefault("tuning.hover_force", HoverForce)
	v.SetDefault("tuning.slam_threshold", SlamThreshold)
	v.SetDefault("tuning.slam_force", SlamForce)
}

// sanitize clamps degenerate authored values to safe ones and reports what
// it changed. Mirrors the construction-time guards so a malformed file can
// never reach the simulation.
func (s *Settings) sanitize() []string {
	var warns []string

	if len(s.Track.ControlPoints) < 2 {
		warns = append(warns, fmt.Sprintf("track needs at least 2 control points, got %d; using default square", len(s.Track.ControlPoints)))
		s.Track.ControlPoints = [][3]float64{
			{-60, 0, -60}, {60, 0, -60}, {60, 0, 60}, {-60, 0, 60},
		}
		s.Track.Closed = true
	}
	if s.Track.Resolution < 1 {
		warns = append(warns, fmt.Sprintf("track resolution %d clamped to %d", s.Track.Resolution, CurveResolution))
		s.Track.Resolution = CurveResolution
	}
	if s.Track.Width <= 0 {
		warns = append(warns, fmt.Sprintf("track width %.2f clamped to %.2f", s.Track.Width, DefaultRoadWidth))
		s.Track.Width = DefaultRoadWidth
	}
	if s.Track.WidthSegments < 1 {
		s.Track.WidthSegments = DefaultWidthSegments
	}
	if s.Track.LengthSegments < 1 {
		s.Track.LengthSegments = DefaultLengthSegments
	}

	for i := range s.Waves {
		w := &s.Waves[i]
		if w.Wavelength < MinWavelength {
			warns = append(warns, fmt.Sprintf("wave %d wavelength %.4f clamped to %.4f", i, w.Wavelength, MinWavelength))
			w.Wavelength = MinWavelength
		}
		if w.Direction[0] == 0 && w.Direction[1] == 0 {
			warns = append(warns, fmt.Sprintf("wave %d has zero direction and will contribute nothing", i))
		}
	}

	if s.Tuning.DetectionDistance <= 0 {
		s.Tuning.DetectionDistance = DetectionDistance
	}
	if s.Tuning.AlignmentThreshold <= 0 {
		s.Tuning.AlignmentThreshold = AlignmentThreshold
	}
	if s.Tuning.SmoothTime <= 0 {
		s.Tuning.SmoothTime = UpSmoothTime
	}
	return warns
}

// WorldParams converts authored settings into build parameters.
func (s *Settings) WorldParams() WorldParams {
	pts := make([]mgl64.Vec3, len(s.Track.ControlPoints))
	for i, p := range s.Track.ControlPoints {
		pts[i] = mgl64.Vec3{p[0], p[1], p[2]}
	}
	waves := make([]WaveComponent, len(s.Waves))
	for i, w := range s.Waves {
		waves[i] = WaveComponent{
			Amplitude:  w.Amplitude,
			Wavelength: w.Wavelength,
			Speed:      w.Speed,
			Direction:  mgl64.Vec2{w.Direction[0], w.Direction[1]},
		}
	}
	return WorldParams{
		ControlPoints:  pts,
		Closed:         s.Track.Closed,
		Resolution:     s.Track.Resolution,
		RoadWidth:      s.Track.Width,
		WidthSegments:  s.Track.WidthSegments,
		LengthSegments: s.Track.LengthSegments,
		Waves:          waves,
	}
}

// Apply copies the tuning overrides onto a vehicle's tracker and controller.
func (ts *TuningSetting) Apply(v *Vehicle) {
	v.Tracker.DetectionDistance = ts.DetectionDistance
	v.Alignment.AlignmentThreshold = ts.AlignmentThreshold
	v.Alignment.AlignmentSpeed = ts.AlignmentSpeed
	v.Alignment.SmoothTime = ts.SmoothTime
	v.Alignment.SuctionForce = ts.SuctionForce
	v.Alignment.HoverEnabled = ts.HoverEnabled
	v.Alignment.HoverHeight = ts.HoverHeight
	v.Alignment.HoverForce = ts.HoverForce
	v.Alignment.SlamThreshold = ts.SlamThreshold
	v.Alignment.SlamForce = ts.SlamForce
}
