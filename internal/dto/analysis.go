package dto

// AnalysisResponse carries a full scoring snapshot. The free-form blocks
// (alerts, validations, extracted data, history, patterns) are rendered
// as-is from the structures the pipeline produced.
type AnalysisResponse struct {
	ID                string      `json:"id"`
	ReimbursementID   string      `json:"reembolso_id"`
	Score             int         `json:"score_confiabilidade"`
	RiskLevel         string      `json:"nivel_risco"`
	ApprovalSuggested bool        `json:"aprovacao_sugerida"`
	SuggestionReason  string      `json:"motivo_sugestao"`
	Alerts            interface{} `json:"alertas"`
	Validations       interface{} `json:"validacoes"`
	ExtractedData     interface{} `json:"dados_extraidos_ocr"`
	History           interface{} `json:"historico_colaborador"`
	Patterns          interface{} `json:"analise_padrao"`
	SimilarReceipts   int         `json:"comprovantes_similares"`
	Recommendation    string      `json:"recomendacao_ia"`
	ModelVersion      string      `json:"versao_modelo"`
	AnalyzedAt        string      `json:"timestamp_analise"`
}

type BatchAnalyzeRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=10"`
}

type BatchAnalyzeItem struct {
	ID       string            `json:"id"`
	Error    string            `json:"erro,omitempty"`
	Analysis *AnalysisResponse `json:"analise,omitempty"`
}

type BatchSummary struct {
	Total      int `json:"total"`
	Succeeded  int `json:"sucesso"`
	Failed     int `json:"falhas"`
	HighRisk   int `json:"alto_risco"`
	MediumRisk int `json:"medio_risco"`
	LowRisk    int `json:"baixo_risco"`
}

type BatchAnalyzeResponse struct {
	Results        []BatchAnalyzeItem `json:"resultados"`
	Summary        BatchSummary       `json:"resumo"`
	ElapsedSeconds float64            `json:"tempo_total_segundos"`
}

type DashboardResponse struct {
	Total               int                `json:"total"`
	TotalReimbursements int                `json:"total_reembolsos"`
	ByRisk              map[string]int     `json:"por_risco"`
	Analyses            []AnalysisResponse `json:"analises"`
}

type ApproveWithAIResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Score   int    `json:"score_confiabilidade"`
	Message string `json:"mensagem"`
}
