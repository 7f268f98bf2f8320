package prompt

import (
	"strings"
)

// reportSchema is the exact JSON shape every provider is asked to return.
const reportSchema = `{
  "coat": {
    "status": "良好/普通/要注意",
    "description": "毛並みの状態の詳細"
  },
  "body": {
    "status": "良好/普通/要注意",
    "description": "体型や体格の詳細"
  },
  "overall": {
    "status": "良好/普通/要注意",
    "description": "全体的な健康状態の総評"
  },
  "recommendations": "飼い主へのアドバイス"
}`

// Analysis returns the prompt sent alongside the image to multimodal providers.
func Analysis() string {
	var sb strings.Builder

	sb.WriteString("この猫の画像から、以下の観点で健康状態を分析してください。")
	sb.WriteString("必ず以下のJSON形式のみで回答してください。")
	sb.WriteString("マークダウンのコードブロックは使わず、JSONオブジェクトだけを返してください:\n\n")
	sb.WriteString(reportSchema)

	return sb.String()
}

// Generation builds the text-only prompt for the second stage of the
// caption-then-generate chain. The caption describes the photo in English.
func Generation(caption string) string {
	var sb strings.Builder

	sb.WriteString("<s>[INST] ")
	sb.WriteString("あなたは猫の健康状態を評価する獣医師のアシスタントです。\n")
	sb.WriteString("以下は猫の写真を説明した文章です:\n\"")
	sb.WriteString(strings.TrimSpace(caption))
	sb.WriteString("\"\n\n")
	sb.WriteString("この説明から、毛並み・体型・全体的な健康状態を推測してください。")
	sb.WriteString("statusは必ず「良好」「普通」「要注意」のいずれかにしてください。")
	sb.WriteString("必ず以下のJSON形式のみで回答し、説明文やマークダウンは含めないでください:\n\n")
	sb.WriteString(reportSchema)
	sb.WriteString(" [/INST]")

	return sb.String()
}
