package domain

// EnvironmentRecord is one timestamped sensor reading from a school's
// cultivation chamber. School and TargetEC are attached at load time and the
// record is never mutated afterwards.
type EnvironmentRecord struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	EC          float64 `json:"ec"`
	School      School  `json:"school"`
	TargetEC    float64 `json:"target_ec"`
}

// EnvironmentSummary holds the per-school means of the environmental
// measurements, used for the cross-school comparison charts.
type EnvironmentSummary struct {
	School          School  `json:"school"`
	MeanTemperature float64 `json:"mean_temperature"`
	MeanHumidity    float64 `json:"mean_humidity"`
	MeanPH          float64 `json:"mean_ph"`
	MeanEC          float64 `json:"mean_ec"`
	TargetEC        float64 `json:"target_ec"`
	Readings        int     `json:"readings"`
}
