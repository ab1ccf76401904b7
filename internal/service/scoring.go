package service

import (
	"fmt"
	"strings"

	"sispar/internal/models"
)

// Alert severities.
const (
	SeverityLow      = "baixa"
	SeverityMedium   = "media"
	SeverityHigh     = "alta"
	SeverityCritical = "critica"
)

// Alert is a structured finding produced by the risk scorer.
type Alert struct {
	Type       string  `json:"tipo"`
	Severity   string  `json:"gravidade"`
	Message    string  `json:"mensagem"`
	Confidence float64 `json:"confianca"`
}

// Validations holds the affirmative checks over a receipt, produced by the
// vision vendor or by the OCR-only fallback. Fields are positive
// assertions: a false value is a detected problem, not missing data.
type Validations struct {
	AmountMatches      bool    `json:"valor_corresponde"`
	DivergencePercent  float64 `json:"divergencia_percentual"`
	DateValid          bool    `json:"data_valida"`
	ReceiptDate        string  `json:"data_comprovante"`
	EstablishmentValid bool    `json:"estabelecimento_valido"`
	ExpenseTypeCorrect bool    `json:"tipo_despesa_correto"`
	DetectedType       string  `json:"tipo_detectado"`
	Legible            bool    `json:"comprovante_legivel"`
	ImageQuality       float64 `json:"qualidade_imagem"`
}

// FraudSignals holds tampering indicators reported by the vision vendor.
type FraudSignals struct {
	Edited                bool    `json:"editado"`
	EditConfidence        float64 `json:"confianca_edicao"`
	VisualInconsistencies bool    `json:"inconsistencias_visuais"`
	SuspiciousLayout      bool    `json:"layout_suspeito"`
	OriginalMetadata      bool    `json:"metadados_originais"`
}

// PatternFlags is the result of the behavioral pattern analysis over a
// collaborator's request history.
type PatternFlags struct {
	ValueOutlier    bool `json:"valor_fora_padrao"`
	FrequencyNormal bool `json:"frequencia_normal"`
	TypeCommon      bool `json:"tipo_comum"`
}

// NormalPatterns is the conservative default used when there is not
// enough history: nothing is flagged.
func NormalPatterns() PatternFlags {
	return PatternFlags{ValueOutlier: false, FrequencyNormal: true, TypeCommon: true}
}

// ReliabilityScore computes the 0-100 confidence score for a
// reimbursement. It starts at 100 and subtracts a fixed penalty per
// detected issue, emitting one structured alert per penalty. The score is
// clamped to [0, 100]; the tier boundaries are inclusive (>= 85 low,
// >= 60 medium, otherwise high).
func ReliabilityScore(v Validations, duplicates int, patterns PatternFlags, fraud FraudSignals) (int, string, []Alert) {
	score := 100
	alerts := make([]Alert, 0)

	if !v.AmountMatches {
		divergence := v.DivergencePercent
		switch {
		case divergence > 50:
			score -= 50
			alerts = append(alerts, Alert{
				Type:       "valor_divergente",
				Severity:   SeverityCritical,
				Message:    fmt.Sprintf("Divergência crítica de %.1f%% entre valor declarado e comprovante", divergence),
				Confidence: 0.98,
			})
		case divergence > 20:
			score -= 40
			alerts = append(alerts, Alert{
				Type:       "valor_divergente",
				Severity:   SeverityHigh,
				Message:    fmt.Sprintf("Divergência alta de %.1f%% entre valor declarado e comprovante", divergence),
				Confidence: 0.95,
			})
		case divergence > 10:
			score -= 25
			alerts = append(alerts, Alert{
				Type:       "valor_divergente",
				Severity:   SeverityHigh,
				Message:    fmt.Sprintf("Divergência de %.1f%% entre valor declarado e comprovante", divergence),
				Confidence: 0.92,
			})
		case divergence > 5:
			score -= 15
			alerts = append(alerts, Alert{
				Type:       "valor_divergente",
				Severity:   SeverityMedium,
				Message:    fmt.Sprintf("Divergência de %.1f%% entre valor declarado e comprovante", divergence),
				Confidence: 0.90,
			})
		default:
			score -= 5
			alerts = append(alerts, Alert{
				Type:       "valor_divergente",
				Severity:   SeverityLow,
				Message:    fmt.Sprintf("Pequena divergência de %.1f%% aceitável", divergence),
				Confidence: 0.85,
			})
		}
	}

	if fraud.Edited {
		confidence := fraud.EditConfidence
		if confidence == 0 {
			confidence = 0.80
		}
		score -= 40
		alerts = append(alerts, Alert{
			Type:       "documento_editado",
			Severity:   SeverityCritical,
			Message:    "Sinais de edição/manipulação detectados na imagem",
			Confidence: confidence,
		})
	}

	if duplicates > 0 {
		score -= 50
		alerts = append(alerts, Alert{
			Type:       "duplicata",
			Severity:   SeverityCritical,
			Message:    fmt.Sprintf("Comprovante duplicado em %d reembolso(s)", duplicates),
			Confidence: 1.0,
		})
	}

	if !v.DateValid {
		score -= 20
		alerts = append(alerts, Alert{
			Type:       "data_invalida",
			Severity:   SeverityHigh,
			Message:    "Data do comprovante posterior à solicitação ou muito antiga",
			Confidence: 0.90,
		})
	}

	if !v.ExpenseTypeCorrect {
		score -= 25
		alerts = append(alerts, Alert{
			Type:       "tipo_incorreto",
			Severity:   SeverityHigh,
			Message:    "Tipo de despesa não corresponde ao estabelecimento",
			Confidence: 0.85,
		})
	}

	if patterns.ValueOutlier {
		score -= 15
		alerts = append(alerts, Alert{
			Type:       "valor_atipico",
			Severity:   SeverityMedium,
			Message:    "Valor fora do padrão histórico do colaborador",
			Confidence: 0.75,
		})
	}

	if !patterns.FrequencyNormal {
		score -= 10
		alerts = append(alerts, Alert{
			Type:       "frequencia_alta",
			Severity:   SeverityMedium,
			Message:    "Frequência de solicitações acima do normal",
			Confidence: 0.70,
		})
	}

	if !v.Legible {
		score -= 20
		alerts = append(alerts, Alert{
			Type:       "ilegivel",
			Severity:   SeverityHigh,
			Message:    "Comprovante com baixa qualidade/legibilidade",
			Confidence: 0.80,
		})
	}

	score = clampScore(score)

	return score, riskLevel(score), alerts
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func riskLevel(score int) string {
	switch {
	case score >= 85:
		return models.RiskLow
	case score >= 60:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// Recommend maps a score, tier and alert list to an approve/reject
// suggestion plus a human-readable justification citing the most relevant
// alerts. The suggestion never changes a reimbursement's status by
// itself.
func Recommend(score int, riskLevel string, alerts []Alert) (bool, string) {
	switch {
	case score >= 90:
		return true, "Aprovar automaticamente. Score de confiabilidade excelente. Sem problemas detectados."
	case score >= 85:
		problems := alertMessages(alerts, 2, SeverityLow, SeverityMedium)
		listed := "nenhum"
		if len(problems) > 0 {
			listed = strings.Join(problems, "; ")
		}
		return true, fmt.Sprintf("Aprovar com ressalvas. Score bom (%d%%). Alertas de baixa gravidade: %s.", score, listed)
	case score >= 70:
		return true, fmt.Sprintf("Aprovar com cautela. Score aceitável (%d%%). Recomenda-se verificação posterior.", score)
	case score >= 50:
		problems := alertMessages(alerts, 2, SeverityHigh, SeverityCritical)
		return false, fmt.Sprintf("Revisão manual obrigatória. Score médio (%d%%). Problemas: %s.", score, strings.Join(problems, "; "))
	default:
		problems := alertMessages(alerts, 3, SeverityCritical)
		return false, fmt.Sprintf("REJEITAR ou investigar. Score baixo (%d%%). Problemas críticos: %s.", score, strings.Join(problems, "; "))
	}
}

func alertMessages(alerts []Alert, limit int, severities ...string) []string {
	var messages []string
	for _, alert := range alerts {
		for _, severity := range severities {
			if alert.Severity == severity {
				messages = append(messages, alert.Message)
				break
			}
		}
		if len(messages) == limit {
			break
		}
	}
	return messages
}
