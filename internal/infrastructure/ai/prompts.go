package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// extractionPrompt instrucciones de extracción; ownTaxIDs son los CUITs del receptor que el
// modelo no debe tomar como proveedor.
func extractionPrompt(ownTaxIDs []string) string {
	return fmt.Sprintf(`Analiza esta factura argentina y extrae los datos en formato JSON.

IMPORTANTE:
- El PROVEEDOR es quien EMITE (arriba en la factura)
- NO uses estos CUITs (son del receptor): %s
- Extrae EXACTAMENTE lo que ves, no inventes datos
- El CUIT debe tener 11 dígitos sin guiones

JSON requerido:
{
  "cabecera": {
    "proveedor": {
      "nombre": "Razón Social del EMISOR",
      "cuit": "CUIT del EMISOR (11 dígitos, sin guiones)",
      "codigo_sistema": null
    },
    "factura": {
      "tipo_comprobante": "FACTURA A/B/C",
      "punto_emision": "0001",
      "numero_comprobante": "00012345",
      "fecha_emision": "YYYY-MM-DD",
      "fecha_vencimiento": "YYYY-MM-DD o null",
      "moneda": "ARS",
      "cotizacion": 1.0,
      "importe_total": 0.0,
      "importe_neto_gravado": 0.0,
      "importe_iva": 0.0,
      "importe_no_gravado": 0.0,
      "importe_exento": 0.0
    },
    "orden_compra_vinculada": {
      "numero": "número de OC o null",
      "encontrada_en_factura": true
    },
    "impuestos": [
      {"tipo": "PERCEP_IIBB", "monto": 0.0}
    ],
    "observaciones": ""
  },
  "items": [
    {
      "linea": 1,
      "descripcion": "Descripción",
      "cantidad": 0.0,
      "precio_unitario": 0.0,
      "alicuota_iva": 21.0,
      "importe_neto": 0.0,
      "importe_iva": 0.0,
      "total_linea": 0.0
    }
  ]
}

Responde SOLO con JSON válido, sin markdown.`, strings.Join(ownTaxIDs, ", "))
}

const reconciliationPrompt = `Actúa como Auditor de Compras experto.
Realiza una CONCILIACIÓN INTELIGENTE entre la Factura (imagen) y los datos de la Orden de Compra (JSON).

Instrucciones:
1. Identifica items facturados en la imagen.
2. Busca su correspondencia en el JSON de la OC (usa lógica semántica).
3. Verifica cantidades y precios.
4. Detecta items no autorizados.

Responde SOLO con JSON:
{
  "resumen": "Explicación del resultado",
  "match_exitoso": true,
  "nro_orden_compra": "número de OC",
  "discrepancias": [
    {"item_factura": "...", "item_oc": "...", "tipo_error": "Precio/Cantidad/No Encontrado", "detalle": "..."}
  ],
  "items_ok": [
    {"descripcion": "...", "cantidad": 0, "precio": 0, "item_oc": 1}
  ]
}

NO uses markdown, SOLO JSON.`

const (
	invoiceDocumentLabel = "DOCUMENTO 1: FACTURA DEL PROVEEDOR"
	orderDocumentLabel   = "DOCUMENTO 2: DATOS DE ORDEN DE COMPRA (BASE DE DATOS):\n"
)

// orderItemsJSON líneas de la OC tal como se le muestran al modelo.
func orderItemsJSON(items []entity.PurchaseOrderItem) (string, error) {
	type row struct {
		Item        int     `json:"nro_item"`
		Product     string  `json:"cod_producto"`
		Description string  `json:"descripcion"`
		Quantity    float64 `json:"cantidad"`
		UnitPrice   float64 `json:"precio_unit"`
		Pending     float64 `json:"pendiente_facturar"`
		TaxRate     float64 `json:"alicuota_iva"`
	}
	rows := make([]row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row{
			Item:        it.LineNumber,
			Product:     it.ProductCode,
			Description: it.Description,
			Quantity:    it.OriginalQuantity.InexactFloat64(),
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			Pending:     it.PendingQuantity.InexactFloat64(),
			TaxRate:     it.TaxRate.InexactFloat64(),
		})
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("AI: serializar ítems de OC: %w", err)
	}
	return string(b), nil
}
