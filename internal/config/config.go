package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"KLineCore/internal/calculator"
	"KLineCore/internal/chart"
	"KLineCore/internal/formatter"
	"KLineCore/internal/layout"
	"KLineCore/internal/model"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Feed sources.
const (
	SourceFile = "file"
	SourceMock = "mock"
)

// Config holds all application configuration. Chart lengths are in dp and are
// multiplied by Density when converted to chart options.
type Config struct {
	Chart struct {
		Density            float64 `yaml:"density"`
		ItemWidth          float64 `yaml:"item_width"`
		PaddingTop         float64 `yaml:"padding_top"`
		PaddingRight       float64 `yaml:"padding_right"`
		PaddingBottom      float64 `yaml:"padding_bottom"`
		ChildPadding       float64 `yaml:"child_padding"`
		TextHeight         float64 `yaml:"text_height"`
		MainFlex           float64 `yaml:"main_flex"`
		VolumeFlex         float64 `yaml:"volume_flex"`
		RightOffsetCandles float64 `yaml:"right_offset_candles"`
		MinGridSpacing     float64 `yaml:"min_grid_spacing"`
		PriceTickCount     int     `yaml:"price_tick_count"`
		PriceFormat        string  `yaml:"price_format"`
		PricePrecision     int32   `yaml:"price_precision"`
		VolumeFormat       string  `yaml:"volume_format"`
		DateLayout         string  `yaml:"date_layout"`
		MainIndicator      string  `yaml:"main_indicator"`
		AuxIndicator       string  `yaml:"aux_indicator"`
	} `yaml:"chart"`
	Indicators struct {
		MA         []int   `yaml:"ma"`
		VolumeMA   []int   `yaml:"volume_ma"`
		RSI        []int   `yaml:"rsi"`
		WR         []int   `yaml:"wr"`
		BollN      int     `yaml:"boll_n"`
		BollP      float64 `yaml:"boll_p"`
		MACDShort  int     `yaml:"macd_short"`
		MACDLong   int     `yaml:"macd_long"`
		MACDSignal int     `yaml:"macd_signal"`
		KDJN       int     `yaml:"kdj_n"`
		KDJM1      int     `yaml:"kdj_m1"`
		KDJM2      int     `yaml:"kdj_m2"`
	} `yaml:"indicators"`
	Prediction struct {
		HitThreshold   float64       `yaml:"hit_threshold"`
		MinExtension   int           `yaml:"min_extension"`
		RevealDuration time.Duration `yaml:"reveal_duration"`
		ScaleReveal    time.Duration `yaml:"scale_reveal_duration"`
	} `yaml:"prediction"`
	Feed struct {
		Source         string        `yaml:"source"`
		Path           string        `yaml:"path"`
		PredictionPath string        `yaml:"prediction_path"`
		LiveCron       string        `yaml:"live_cron"`
		MockCount      int           `yaml:"mock_count"`
		MockBasePrice  float64       `yaml:"mock_base_price"`
		MockInterval   time.Duration `yaml:"mock_interval"`
		MockSeed       int64         `yaml:"mock_seed"`
	} `yaml:"feed"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies .env and environment overrides
// and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Chart.Density = getEnvFloatOrDefault("KLINE_DENSITY", c.Chart.Density)
	c.Chart.ItemWidth = getEnvFloatOrDefault("KLINE_ITEM_WIDTH", c.Chart.ItemWidth)
	c.Chart.ChildPadding = getEnvFloatOrDefault("KLINE_CHILD_PADDING", c.Chart.ChildPadding)
	c.Chart.MainIndicator = getEnvOrDefault("KLINE_MAIN_INDICATOR", c.Chart.MainIndicator)
	c.Chart.AuxIndicator = getEnvOrDefault("KLINE_AUX_INDICATOR", c.Chart.AuxIndicator)
	c.Prediction.HitThreshold = getEnvFloatOrDefault("KLINE_HIT_THRESHOLD", c.Prediction.HitThreshold)
	c.Feed.Source = getEnvOrDefault("KLINE_FEED_SOURCE", c.Feed.Source)
	c.Feed.Path = getEnvOrDefault("KLINE_FEED_PATH", c.Feed.Path)
	c.Feed.PredictionPath = getEnvOrDefault("KLINE_PREDICTION_PATH", c.Feed.PredictionPath)
	c.Feed.LiveCron = getEnvOrDefault("KLINE_LIVE_CRON", c.Feed.LiveCron)
	c.Feed.MockCount = getEnvIntOrDefault("KLINE_MOCK_COUNT", c.Feed.MockCount)
	c.Database.SQLitePath = getEnvOrDefault("SQLITE_PATH", c.Database.SQLitePath)
	c.Log.File = getEnvOrDefault("LOG_FILE", c.Log.File)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
}

func (c *Config) applyDefaults() {
	ch := &c.Chart
	if ch.Density == 0 {
		ch.Density = 1
	}
	if ch.ItemWidth == 0 {
		ch.ItemWidth = 8
	}
	if ch.PaddingTop == 0 {
		ch.PaddingTop = 20
	}
	if ch.PaddingRight == 0 {
		ch.PaddingRight = 50
	}
	if ch.PaddingBottom == 0 {
		ch.PaddingBottom = 20
	}
	if ch.ChildPadding == 0 {
		ch.ChildPadding = 50
	}
	if ch.MainFlex == 0 {
		ch.MainFlex = 0.6
	}
	if ch.VolumeFlex == 0 {
		ch.VolumeFlex = 0.2
	}
	if ch.MinGridSpacing == 0 {
		ch.MinGridSpacing = 84
	}
	if ch.PriceTickCount == 0 {
		ch.PriceTickCount = 6
	}
	if ch.PriceFormat == "" {
		ch.PriceFormat = "auto"
	}
	if ch.VolumeFormat == "" {
		ch.VolumeFormat = "compact"
	}
	if ch.DateLayout == "" {
		ch.DateLayout = formatter.DefaultDateLayout
	}
	if ch.MainIndicator == "" {
		ch.MainIndicator = "ma"
	}
	if ch.AuxIndicator == "" {
		ch.AuxIndicator = "macd"
	}

	def := calculator.DefaultParams()
	in := &c.Indicators
	if len(in.MA) == 0 {
		in.MA = def.MA
	}
	if len(in.VolumeMA) == 0 {
		in.VolumeMA = def.VolumeMA
	}
	if len(in.RSI) == 0 {
		in.RSI = def.RSI
	}
	if len(in.WR) == 0 {
		in.WR = def.WR
	}
	if in.BollN == 0 {
		in.BollN = def.BollN
	}
	if in.BollP == 0 {
		in.BollP = def.BollP
	}
	if in.MACDShort == 0 {
		in.MACDShort = def.MACDShort
	}
	if in.MACDLong == 0 {
		in.MACDLong = def.MACDLong
	}
	if in.MACDSignal == 0 {
		in.MACDSignal = def.MACDSignal
	}
	if in.KDJN == 0 {
		in.KDJN = def.KDJN
	}
	if in.KDJM1 == 0 {
		in.KDJM1 = def.KDJM1
	}
	if in.KDJM2 == 0 {
		in.KDJM2 = def.KDJM2
	}

	if c.Prediction.HitThreshold == 0 {
		c.Prediction.HitThreshold = 60
	}
	if c.Prediction.MinExtension == 0 {
		c.Prediction.MinExtension = 10
	}
	if c.Prediction.RevealDuration == 0 {
		c.Prediction.RevealDuration = 1500 * time.Millisecond
	}
	if c.Prediction.ScaleReveal == 0 {
		c.Prediction.ScaleReveal = 500 * time.Millisecond
	}

	if c.Feed.Source == "" {
		c.Feed.Source = SourceMock
	}
	if c.Feed.LiveCron == "" {
		c.Feed.LiveCron = "*/5 * * * * *"
	}
	if c.Feed.MockCount == 0 {
		c.Feed.MockCount = 200
	}
	if c.Feed.MockBasePrice == 0 {
		c.Feed.MockBasePrice = 100
	}
	if c.Feed.MockInterval == 0 {
		c.Feed.MockInterval = time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the configuration describes a usable chart and feed.
func (c *Config) Validate() error {
	ch := c.Chart
	if ch.Density <= 0 {
		return fmt.Errorf("chart.density must be positive")
	}
	if ch.ItemWidth <= 0 {
		return fmt.Errorf("chart.item_width must be positive")
	}
	if ch.MainFlex <= 0 || ch.VolumeFlex <= 0 || ch.MainFlex+ch.VolumeFlex >= 1 {
		return fmt.Errorf("chart.main_flex and chart.volume_flex must be positive and sum below 1")
	}
	if ch.PriceTickCount < 2 {
		return fmt.Errorf("chart.price_tick_count must be at least 2")
	}
	if _, err := c.PriceFormatter(); err != nil {
		return err
	}
	if _, err := c.VolumeFormatter(); err != nil {
		return err
	}
	if _, err := model.ParseMainIndicator(ch.MainIndicator); err != nil {
		return fmt.Errorf("chart.main_indicator: %w", err)
	}
	if _, err := model.ParseAuxIndicator(ch.AuxIndicator); err != nil {
		return fmt.Errorf("chart.aux_indicator: %w", err)
	}
	if err := c.IndicatorParams().Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	if c.Prediction.HitThreshold <= 0 {
		return fmt.Errorf("prediction.hit_threshold must be positive")
	}
	switch c.Feed.Source {
	case SourceMock:
		if c.Feed.MockInterval < time.Millisecond {
			return fmt.Errorf("feed.mock_interval must be at least 1ms, got %s", c.Feed.MockInterval)
		}
	case SourceFile:
		if c.Feed.Path == "" {
			return fmt.Errorf("feed.path is required for the file source")
		}
	default:
		return fmt.Errorf("feed.source must be %q or %q, got %q", SourceFile, SourceMock, c.Feed.Source)
	}
	if _, err := cron.NewParser(cronFields).Parse(c.Feed.LiveCron); err != nil {
		return fmt.Errorf("feed.live_cron: %w", err)
	}
	return nil
}

// cronFields matches the seconds-aware parser used by the live feed.
const cronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// IndicatorParams returns the configured indicator periods.
func (c *Config) IndicatorParams() calculator.Params {
	in := c.Indicators
	return calculator.Params{
		MA:         in.MA,
		VolumeMA:   in.VolumeMA,
		RSI:        in.RSI,
		WR:         in.WR,
		BollN:      in.BollN,
		BollP:      in.BollP,
		MACDShort:  in.MACDShort,
		MACDLong:   in.MACDLong,
		MACDSignal: in.MACDSignal,
		KDJN:       in.KDJN,
		KDJM1:      in.KDJM1,
		KDJM2:      in.KDJM2,
	}
}

// ChartOptions converts the configuration to pixel-space chart options.
func (c *Config) ChartOptions() (chart.Options, error) {
	mainInd, err := model.ParseMainIndicator(c.Chart.MainIndicator)
	if err != nil {
		return chart.Options{}, err
	}
	auxInd, err := model.ParseAuxIndicator(c.Chart.AuxIndicator)
	if err != nil {
		return chart.Options{}, err
	}

	price, err := c.PriceFormatter()
	if err != nil {
		return chart.Options{}, err
	}
	volume, err := c.VolumeFormatter()
	if err != nil {
		return chart.Options{}, err
	}

	ch := c.Chart
	d := ch.Density
	opts := chart.DefaultOptions()
	opts.ItemWidth = ch.ItemWidth * d
	opts.PaddingRight = ch.PaddingRight * d
	opts.RightOffsetCandles = ch.RightOffsetCandles
	opts.Layout = layout.Params{
		PaddingTop:    ch.PaddingTop * d,
		PaddingBottom: ch.PaddingBottom * d,
		ChildPadding:  ch.ChildPadding * d,
		TextHeight:    ch.TextHeight * d,
		MainFlex:      ch.MainFlex,
		VolumeFlex:    ch.VolumeFlex,
	}
	opts.MinGridSpacingPx = ch.MinGridSpacing * d
	opts.PriceTickCount = ch.PriceTickCount
	opts.HitThreshold = c.Prediction.HitThreshold
	opts.MinOverlayExtension = c.Prediction.MinExtension
	opts.RevealDuration = c.Prediction.ScaleReveal
	opts.PredictionRevealDuration = c.Prediction.RevealDuration
	opts.Indicators = c.IndicatorParams()
	opts.MainIndicator = mainInd
	opts.AuxIndicator = auxInd
	opts.PriceFormatter = price
	opts.VolumeFormatter = volume
	return opts, nil
}

// PriceFormatter builds the price label formatter: "auto" trims trailing zeros,
// "fixed" pads to price_precision and "standard" groups thousands.
func (c *Config) PriceFormatter() (formatter.Formatter, error) {
	switch c.Chart.PriceFormat {
	case "auto":
		return formatter.PriceFormatter{Precision: c.Chart.PricePrecision}, nil
	case "fixed":
		return formatter.FixedFormatter{Digits: c.Chart.PricePrecision}, nil
	case "standard":
		return formatter.StandardFormatter{}, nil
	default:
		return nil, fmt.Errorf("chart.price_format: unknown format %q", c.Chart.PriceFormat)
	}
}

// VolumeFormatter builds the volume label formatter: "compact" (K/M/B/T) or "chinese" (万/百万/亿).
func (c *Config) VolumeFormatter() (formatter.Formatter, error) {
	switch c.Chart.VolumeFormat {
	case "compact":
		return formatter.NewCompactFormatter(), nil
	case "chinese":
		return formatter.NewChineseBigValueFormatter(), nil
	default:
		return nil, fmt.Errorf("chart.volume_format: unknown format %q", c.Chart.VolumeFormat)
	}
}

// DateFormatter builds the formatter for candle date labels.
func (c *Config) DateFormatter() formatter.DateFormatter {
	return formatter.TimeFormatter{Layout: c.Chart.DateLayout}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloatOrDefault(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
