package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/tupper/core"
)

const filterPromptTemplate = `Eres un asistente que extrae filtros estructurados de preguntas sobre comida. La respuesta debe ser un JSON válido y NADA MÁS. No expliques nada.

Devuelve solo las claves relevantes entre:
%s
- kcal: cadena de comparación como "<400" o ">500"

Reglas:
- Devuelve un único objeto JSON. Empieza con { y termina con }.
- Incluye una clave solo si la pregunta la menciona o la implica claramente.
- Los valores booleanos deben ser true o false, sin comillas.
- Si no hay ningún filtro aplicable, devuelve {}.

Ejemplo:
Pregunta: "quiero platos veganos de menos de 400 calorías"
Respuesta: {"is_vegano": true, "kcal": "<400"}`

const answerSystemPrompt = `Eres un asistente de Nococinomas, una tienda online de tuppers saludables y variados.

Tu función es:
- Ayudar al usuario a planificar sus pedidos según sus necesidades (dieta, presupuesto, preferencias).
- Recomendar solo platos que están disponibles en el catálogo proporcionado (NO inventes combinaciones ni menciones platos fuera del contexto).
- Priorizar los platos que mejor se ajusten a lo que pide el usuario (ej: más proteína, menor precio, etc.).
- Si el usuario menciona días o semanas, puedes sugerir repeticiones razonables, pero siempre a partir de los platos reales del contexto.
- Limita la lista a los 3–5 platos más relevantes, con sus detalles (proteínas, precio, etc.).
- No expliques el funcionamiento del sistema ni menciones que estás usando un modelo.`

const answerUserTemplate = `Platos disponibles:
%s

Solicitud del usuario:
%s

Tu respuesta (concreta, clara, basada solo en los platos reales):`

// buildFilterPrompt lists every recognized tag as a boolean key.
func buildFilterPrompt() string {
	var fields strings.Builder
	for i, t := range core.Tags {
		if i > 0 {
			fields.WriteByte('\n')
		}
		fmt.Fprintf(&fields, "- %s: booleano", t)
	}
	return fmt.Sprintf(filterPromptTemplate, fields.String())
}

func buildAnswerPrompt(question, contextText string) string {
	return fmt.Sprintf(answerUserTemplate, contextText, question)
}
