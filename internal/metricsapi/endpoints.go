package metricsapi

// Endpoint is a metrics API resource.
type Endpoint struct {
	Name string
	Path string
	// Shortcuts reports whether the resource serves /ultimas-24h style sub-paths.
	Shortcuts bool
	// RangeFallback reports whether Path itself accepts desde/hasta when a shortcut is missing.
	RangeFallback bool
}

var (
	CasosAtendidos        = Endpoint{Name: "casos_atendidos", Path: "/metrics/casos-atendidos", Shortcuts: true, RangeFallback: true}
	CasosAtendidosResumen = Endpoint{Name: "casos_atendidos_resumen", Path: "/metrics/casos-atendidos/resumen"}
	CasosAbiertos         = Endpoint{Name: "casos_abiertos", Path: "/metrics/casos-abiertos", Shortcuts: true}
	CasosResueltos        = Endpoint{Name: "casos_resueltos", Path: "/metrics/casos-resueltos", Shortcuts: true, RangeFallback: true}
	CasosAbandonados      = Endpoint{Name: "casos_abandonados_24h", Path: "/metrics/casos-abandonados-24h", Shortcuts: true, RangeFallback: true}
	CasosPendientes       = Endpoint{Name: "casos_pendientes", Path: "/metrics/casos-pendientes"}

	FRT               = Endpoint{Name: "frt", Path: "/metrics/tiempo-primera-respuesta", Shortcuts: true, RangeFallback: true}
	FRTSLA            = Endpoint{Name: "frt_sla", Path: "/metrics/tiempo-primera-respuesta/sla"}
	FRTAgentesResumen = Endpoint{Name: "frt_agentes_resumen", Path: "/metrics/tiempo-primera-respuesta/agentes-resumen"}
	FRTRanking        = Endpoint{Name: "frt_ranking_agentes", Path: "/metrics/tiempo-primera-respuesta/ranking-agentes"}
	FRTResumenAgentes = Endpoint{Name: "frt_resumen_agentes", Path: "/metrics/tiempo-primera-respuesta/resumen-agentes"}
	FRTResumenEquipos = Endpoint{Name: "frt_resumen_equipos", Path: "/metrics/tiempo-primera-respuesta/resumen-equipos"}

	Duracion               = Endpoint{Name: "duracion", Path: "/metrics/duracion-promedio"}
	DuracionResumenAgentes = Endpoint{Name: "duracion_resumen_agentes", Path: "/metrics/duracion-promedio/resumen-agentes"}
	DuracionResumenEquipos = Endpoint{Name: "duracion_resumen_equipos", Path: "/metrics/duracion-promedio/resumen-equipos"}
)

// shortcutPath returns the path to query for the window, or "" when the endpoint has none.
func (e Endpoint) shortcutPath(w Window) string {
	if !e.Shortcuts || w.Segment() == "" {
		return ""
	}
	return e.Path + "/" + w.Segment()
}
