package catalog

// DefaultSources returns the built-in identifier patterns, one per
// country/ID-type. Order is preserved as the catalog's iteration order.
// CI_NIC and RUC_NIC intentionally share a source expression; both formats
// are written the same way, and the redactor tolerates the duplicate spans.
func DefaultSources() []Source {
	return []Source{
		{Label: "CI_NIC", Expr: `\b\d{3}[-\s]\d{6}[-\s]\d{4}[A-Z]?\b`},
		{Label: "RUC_NIC", Expr: `\b\d{3}[-\s]\d{6}[-\s]\d{4}[A-Z]?\b`},
		{Label: "CPF_BRA", Expr: `\b\d{3}[.\s-]\d{3}[.\s-]\d{3}[.\s-]\d{2}\b`},
		{Label: "DPI_GTM", Expr: `\b\d{4}\s\d{5}\s\d{4}\b`},
		{Label: "CURP_MEX", Expr: `\b[A-Z]{4}-?\d{6}-?[HM][A-Z]{5}[A-Z0-9]\b`},
		{Label: "RFC_MEX", Expr: `\b[A-ZÑ&]{3,4}-?\d{6}-?[A-Z0-9]{3}\b`},
		{Label: "RIF_VEN", Expr: `\b[JGVEP][- ]\d{8}[- ]\d\b`},
		{Label: "CI_BOL", Expr: `\b\d{6,8}[-\s][A-Z]{2}\b`},
		{Label: "RUC_PRY", Expr: `\b\d{6,8}[A-Z]?[-\s]\d\b`},
		{Label: "CUIT_ARG", Expr: `\b\d{2}[.\s-]\d{8}[.\s-]\d\b`},
		{Label: "CI_URU", Expr: `\b\d{1,2}[.\s-]\d{3}[.\s-]\d{3}[.\s-]\d\b`},
		{Label: "RUT_CHI", Expr: `\b\d{1,2}[.\s-]\d{3}[.\s-]\d{3}[.\s-]?[\dkK]\b`},
		{Label: "CI_VEN", Expr: `\b[VvEe][- ]\d{6,8}\b`},
		{Label: "PAS_ARG", Expr: `\bAA[-\s]\d{7}\b`},
		{Label: "PAS_CHI", Expr: `\b[Cc]-\d{8}\b`},
		{Label: "PAS_MEX", Expr: `\bG-\d{8}\b`},
		{Label: "ID_HTI", Expr: `\b\d{2}[-\s]\d{2}[-\s]\d{2}[-\s]\d{5}\b`},
		{Label: "CI_CRI", Expr: `\bCR[-\s]?\d[-\s]?\d{4}[-\s]?\d{4}\b`},
		{Label: "CI_CUB", Expr: `\bCUB[-\s]?\d{6}[-\s]?\d{5}\b`},
		{Label: "NIT_BOL", Expr: `\bBO[-\s]?\d{6,8}[-\s]?\d\b`},
		{Label: "NIT_COL", Expr: `\bCOL[-\s]?\d{8,10}-\d\b`},
		{Label: "NIT_GTM", Expr: `\bGT[-\s]?\d{6,8}[-\s]?\d\b`},
		{Label: "NIT_SLV", Expr: `\bSV[-\s]?\d{4}[-\s]?\d{6}[-\s]?\d{3}[-\s]?\d\b`},
		{Label: "RNC_DOM", Expr: `\bRD[-\s]?\d[-\s]?\d{2}[-\s]?\d{5}[-\s]?\d\b`},
		{Label: "RTN_HND", Expr: `\bHN[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{5}\b`},
		{Label: "RUC_ECU", Expr: `\bEC[-\s]?\d{10}[-\s]?\d{3}\b`},
		{Label: "RUC_PAN", Expr: `\bP[-\s]?\d{1,4}[-\s]?\d{1,4}[-\s]?\d{1,4}\b`},
		{Label: "RUC_PER", Expr: `\bPE[-\s]?(10|15|16|17|20)\d{8}\b`},
	}
}
