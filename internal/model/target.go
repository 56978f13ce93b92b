package model

// Datasource and data type labels understood by the query-execution layer.
const (
	DataSourcePrometheus = "prometheus"
	DataTypeTimeSeries   = "time_series"

	// DefaultInterval is left for the execution layer to substitute.
	DefaultInterval = "$interval_second"

	// PrimaryAlias names the main query of a panel.
	PrimaryAlias = "A"
)

// Target is one query the charting subsystem issues and draws.
type Target struct {
	Data       TargetData `json:"data"`
	Datasource string     `json:"datasource"`
	DataType   string     `json:"data_type"`
	API        string     `json:"api"`
}

// TargetData is the body of a target.
type TargetData struct {
	// Expression is always PrimaryAlias. Reference lines differ only in their alias.
	Expression   string        `json:"expression"`
	QueryConfigs []QueryConfig `json:"query_configs"`
}

// QueryConfig carries one generated expression.
type QueryConfig struct {
	DataSourceLabel string              `json:"data_source_label"`
	DataTypeLabel   string              `json:"data_type_label"`
	PromQL          string              `json:"promql"`
	Interval        string              `json:"interval"`
	Alias           string              `json:"alias"`
	FilterDict      map[string][]string `json:"filter_dict"`
}

// NewTarget wraps a single PromQL expression. The query config carries alias.
func NewTarget(api, interval, alias, promql string) Target {
	if interval == "" {
		interval = DefaultInterval
	}
	return Target{
		Data: TargetData{
			Expression: PrimaryAlias,
			QueryConfigs: []QueryConfig{{
				DataSourceLabel: DataSourcePrometheus,
				DataTypeLabel:   DataTypeTimeSeries,
				PromQL:          promql,
				Interval:        interval,
				Alias:           alias,
				FilterDict:      map[string][]string{},
			}},
		},
		Datasource: DataTypeTimeSeries,
		DataType:   DataTypeTimeSeries,
		API:        api,
	}
}

// Alias returns the alias of the first query config, or "".
func (t Target) Alias() string {
	if len(t.Data.QueryConfigs) == 0 {
		return ""
	}
	return t.Data.QueryConfigs[0].Alias
}

// PromQL returns the expression of the first query config, or "".
func (t Target) PromQL() string {
	if len(t.Data.QueryConfigs) == 0 {
		return ""
	}
	return t.Data.QueryConfigs[0].PromQL
}
