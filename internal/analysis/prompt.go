package analysis

import (
	"fmt"
	"strings"
)

const threatPromptTemplate = `
You are an advanced Cybersecurity AI Specialist analyzing Android system data.
Context: %s
Data Trace: %s

Task:
1. Identify potential security risks (Rootkits, RATs, Spyware, APTs).
2. Explain the technical implications of the anomaly.
3. Recommend specific remediation steps (Kill process, Revoke permission, Quarantine).

Output Format:
- Concise, technical summary in Arabic (Security Report style).
- Use bullet points for recommendations.
`

// ThreatPrompt interpolates a context and data trace into the analyst
// instructions.
func ThreatPrompt(subject, trace string) string {
	return fmt.Sprintf(threatPromptTemplate, subject, trace)
}

// InsightPrompt asks for behavioural patterns across log lines.
func InsightPrompt(logs []string) string {
	return "Analyze these simplified Android system logs for suspicious behavior patterns " +
		"(e.g. background data exfiltration, unauthorized mic access): \n" +
		strings.Join(logs, "\n") +
		"\n\nRespond in Arabic."
}
