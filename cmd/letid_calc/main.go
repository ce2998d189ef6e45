package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	letid "letid_calc"
)

type Config struct {
	// "lab" or "outdoors"
	Mode string `json:"mode"`

	Tau0           float64 `json:"tau_0"`
	TauDeg         float64 `json:"tau_deg"`
	WaferThickness float64 `json:"wafer_thickness"`
	SRear          float64 `json:"s_rear"`
	CellArea       float64 `json:"cell_area"`

	NA0 float64 `json:"n_a_0"`
	NB0 float64 `json:"n_b_0"`
	NC0 float64 `json:"n_c_0"`

	Mechanism string `json:"mechanism"`

	// lab mode
	Temperature   float64 `json:"temperature"`
	Injection     float64 `json:"injection"`
	DurationHours float64 `json:"duration_hours"`
	Freq          string  `json:"freq"`

	// outdoors mode
	WeatherPath string `json:"weather_path"`
	MetaPath    string `json:"meta_path"`

	RegenerationThreshold float64 `json:"regeneration_threshold"`
}

func load_config(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Mode:                  "lab",
		Tau0:                  115.0,
		TauDeg:                55.0,
		WaferThickness:        180.0,
		SRear:                 46.0,
		CellArea:              243.0,
		NA0:                   100.0,
		Mechanism:             "repins",
		Temperature:           75.0,
		Injection:             0.1,
		DurationHours:         3 * 7 * 24,
		Freq:                  "1h",
		RegenerationThreshold: 0.99,
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *Config, output_data_dir string, plots_saved bool) {
	if _, err := os.Stat(output_data_dir); os.IsNotExist(err) {
		os.Mkdir(output_data_dir, 0755)
	}

	var steps []letid.TimeStep
	var err error
	switch cfg.Mode {
	case "lab":
		freq, ferr := letid.NewInterval(cfg.Freq)
		if ferr != nil {
			log.Fatal(ferr)
		}
		log.Printf("simulating %v hours at %v C, %v suns (%s)", cfg.DurationHours, cfg.Temperature, cfg.Injection, cfg.Mechanism)
		steps, err = letid.CalcLetidLab(cfg.Tau0, cfg.TauDeg, cfg.WaferThickness, cfg.SRear,
			cfg.NA0, cfg.NB0, cfg.NC0, cfg.Mechanism, cfg.Temperature, cfg.Injection,
			time.Duration(cfg.DurationHours*float64(time.Hour)), freq)
	case "outdoors":
		weather, werr := letid.LoadWeatherCSV(cfg.WeatherPath)
		if werr != nil {
			log.Fatal(werr)
		}
		meta, merr := letid.LoadSiteMetadata(cfg.MetaPath)
		if merr != nil {
			log.Fatal(merr)
		}
		log.Printf("simulating weather record `%s` (%s)", cfg.WeatherPath, cfg.Mechanism)
		steps, err = letid.CalcLetidOutdoors(cfg.Tau0, cfg.TauDeg, cfg.WaferThickness, cfg.SRear,
			cfg.NA0, cfg.NB0, cfg.NC0, cfg.Mechanism, weather, meta)
	default:
		log.Fatalf("unknown mode `%s` (want lab or outdoors)", cfg.Mode)
	}
	if err != nil {
		log.Fatal(err)
	}

	steps, err = letid.CalcDeviceParams(steps, cfg.CellArea)
	if err != nil {
		log.Fatal(err)
	}

	record_path := filepath.Join(output_data_dir, "letid_record.csv")
	log.Printf("save record to `%s`", record_path)
	if err := letid.SaveTimesteps(record_path, steps); err != nil {
		log.Fatal(err)
	}

	loss, err := letid.CalcEnergyLoss(steps)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("energy loss over the record: %.4f %%", loss*100.0)

	if at, ok, err := letid.CalcRegenerationTime(steps, cfg.RegenerationThreshold); err != nil {
		log.Fatal(err)
	} else if ok {
		log.Printf("power regenerated past %.2f at %s", cfg.RegenerationThreshold, at.Format(time.RFC3339))
	} else {
		log.Printf("power never regenerated past %.2f", cfg.RegenerationThreshold)
	}

	if plots_saved {
		states_path := filepath.Join(output_data_dir, "defect_states.png")
		log.Printf("save defect state plot to `%s`", states_path)
		if err := letid.PlotDefectStates(steps, states_path); err != nil {
			log.Fatal(err)
		}
		power_path := filepath.Join(output_data_dir, "normalized_power.png")
		log.Printf("save normalized power plot to `%s`", power_path)
		if err := letid.PlotNormalizedPower(steps, power_path); err != nil {
			log.Fatal(err)
		}
	}
}

func main() {
	var config_path string
	flag.StringVar(&config_path, "input", "", "simulation config JSON file")

	var output_data_dir string
	flag.StringVar(&output_data_dir, "o", ".", "output directory")

	var plots_saved bool
	flag.BoolVar(&plots_saved, "plots_saved", false, "write PNG plots of the record")

	var list_kinetics bool
	flag.BoolVar(&list_kinetics, "list_kinetics", false, "list the bundled kinetics presets and exit")

	flag.Parse()

	if list_kinetics {
		names, err := letid.KineticsNames()
		if err != nil {
			log.Fatal(err)
		}
		for _, name := range names {
			log.Println(name)
		}
		return
	}

	if config_path == "" {
		log.Fatal("-input is required")
	}
	cfg, err := load_config(config_path)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	run(cfg, output_data_dir, plots_saved)
	log.Printf("elapsed_time: %v", time.Since(start))
}
