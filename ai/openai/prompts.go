package openai

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string"},
          "summary": {"type": "string"}
        },
        "required": ["id", "type", "summary"],
        "additionalProperties": false
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {"type": "string"},
          "target": {"type": "string"},
          "relation": {"type": "string"}
        },
        "required": ["source", "target", "relation"],
        "additionalProperties": false
      }
    }
  },
  "required": ["nodes", "edges"],
  "additionalProperties": false
}`

const extractionSystemPrompt = `Extract the key entities and the relations between them from the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

` + extractionResponseSchema + `

Rules:
- Node "id" is the entity's canonical name in its most common written form, e.g. "Kubernetes", "World Health Organization".
- Node "type" is a short category such as "Concept", "Organization", "Person", "Place", "Technology".
- Node "summary" is one sentence describing the entity as used in the text.
- Edge "source" and "target" must be ids of nodes in the same response.
- Edge "relation" is a short verb phrase, e.g. "created by", "is part of".
- Include only entities explicitly mentioned or clearly implied by the text. Do not hallucinate.
- If no entities can be identified, return {"nodes": [], "edges": []}.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Kubernetes is an open-source container orchestrator originally designed by Google."
Output:
{
  "nodes": [
    {"id":"Kubernetes","type":"Technology","summary":"An open-source container orchestrator."},
    {"id":"Google","type":"Organization","summary":"The company that originally designed Kubernetes."}
  ],
  "edges": [
    {"source":"Kubernetes","target":"Google","relation":"designed by"}
  ]
}`
