package analysis

import "fmt"

// DefaultHighlightContext steers highlight extraction when no operator
// configured context is available.
const DefaultHighlightContext = "interview with company about needs and opportunities"

const recapSystemPrompt = `You are an AI assistant that generates comprehensive meeting recaps. Based on the meeting transcript provided, create a detailed recap that includes:

1. Meeting Summary (2-3 sentences overview)
2. Key Discussion Points (bulleted list of main topics discussed)
3. Action Points (specific tasks or commitments mentioned)
4. Next Steps (any follow-up actions or next meetings planned)
5. Important Decisions Made (if any)

Format your response in clear sections with proper headers. Be concise but thorough, focusing on actionable information and key takeaways.

Respond with raw JSON only in this exact format:
{
  "summary": "Brief 2-3 sentence overview of the meeting",
  "keyPoints": ["Point 1", "Point 2", "Point 3"],
  "actionItems": ["Action 1", "Action 2"],
  "nextSteps": ["Step 1", "Step 2"],
  "decisions": ["Decision 1", "Decision 2"]
}

Do not include code blocks, markdown, or any other formatting.`

func recapUserPrompt(transcript string) string {
	return fmt.Sprintf("Please analyze this meeting transcript and provide a comprehensive recap:\n\n%s", transcript)
}

func highlightsSystemPrompt(highlightContext string) string {
	return fmt.Sprintf(`You are an AI assistant that extracts key highlights from meeting transcripts. Given the context %q, identify and extract the most important highlights from the meeting transcript.

Focus on:
1. Key insights and revelations
2. Important commitments or agreements
3. Significant problems or challenges mentioned
4. Notable opportunities identified
5. Critical decisions or turning points
6. Memorable quotes or statements
7. Important data points or metrics mentioned

Respond with raw JSON only in this exact format:
{
  "highlights": [
    {
      "category": "insight|commitment|problem|opportunity|decision|quote|data",
      "content": "The actual highlight content",
      "importance": "high|medium|low"
    }
  ]
}

Extract 3-8 highlights maximum, prioritizing the most important ones. Do not include code blocks, markdown, or any other formatting.`, highlightContext)
}

func highlightsUserPrompt(highlightContext, transcript string) string {
	return fmt.Sprintf("Context: %s\n\nPlease extract key highlights from this meeting transcript:\n\n%s", highlightContext, transcript)
}
