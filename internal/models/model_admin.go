package models

// ModelSummary es el estado de los artefactos del modelo cargados en el
// proceso (respuesta de /admin/model/summary).
type ModelSummary struct {
	HasProfiles bool `json:"hasProfiles"`
	HasKMeans   bool `json:"hasKmeans"`
	HasKNN      bool `json:"hasKnn"`

	Users      int    `json:"users"`      // perfiles indexados
	GenreCount int    `json:"genreCount"` // tamaño del vocabulario
	K          int    `json:"k"`          // clusters del kmeans
	Method     string `json:"method,omitempty"`
	TrainedAt  string `json:"trainedAt,omitempty"`

	ClusterSizes map[int]int `json:"clusterSizes,omitempty"` // clusterId -> usuarios
}

// ModelReloadResult es la respuesta de /admin/model/reload.
type ModelReloadResult struct {
	Reloaded bool         `json:"reloaded"`
	Summary  ModelSummary `json:"summary"`
}
