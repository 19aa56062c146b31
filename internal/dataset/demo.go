package dataset

// DemoTexts returns a small corpus mixing real Latin-American identifiers
// with ordinary numeric text (dates, prices, phone numbers, serials) that
// must survive redaction untouched. Used by the --demo mode and by tests.
func DemoTexts() []string {
	return []string{
		// Real identifiers.
		"Mi RUT es 12.345.678-9",
		"RFC: GOM8405121A1",
		"Número cubano: CUB-123456-54321",
		"DPI guatemalteco: 1234 56789 1234",
		"ID Haití: 01-02-03-12345",
		"CI Bolivia: 12345678-LP",
		"CUIT: 20-12345678-1",
		"Número brasileño: 123.456.789-00",
		"Cédula Venezuela: V-12345678",
		"CI uruguaya: 1.234.567-8",
		"Pasaporte chileno: C-12345678",
		"Pasaporte mexicano: G-12345678",
		"Pasaporte argentino: AA-1234567",
		"Número salvadoreño: SV-1234-123456-123-1",
		"Número dominicano: RD-1-23-12345-6",
		"RTN Honduras: HN-1234-5678-12345",
		"RUC Panamá: P-123-456-789",
		"RUC Paraguay: 12345678A-9",
		"RUC Ecuador: EC-1790012345-001",
		"CI Nicaragua: 123-456789-1234A",
		"Número colombiano: COL-800123456-1",

		// Ordinary numeric text that must pass through unchanged.
		"El precio es 10.000 pesos.",
		"Hoy es 12-05-2025, temperatura 22.5°C.",
		"La ecuación es: 5x² + 3x - 7 = 0",
		"Mi número de serie es 123456789",
		"La raíz de 64 es 8",
		"Esto no tiene nada",
		"Código de producto: A1B2C3D4E5",
		"Mi correo es juan.perez@gmail.com",
		"Número de teléfono: +56 9 8765 4321",
		"Transacción: 123-456-789",
		"Fecha de emisión: 10-10-2022",
		"Folio: 987654321-0",
		"Serial: 123456-789",
		"Teléfono: 1234-5678",
		"Mi IP es 192.168.1.1",
		// Eleven digits, one too many for a Peruvian RUC.
		"RUC Perú: PE-20123456789",
	}
}
