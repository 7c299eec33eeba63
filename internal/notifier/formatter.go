package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/recorder"
)

const maxNewsItems = 3

// signalBadge renders a signal with its marker.
func signalBadge(s model.Signal) string {
	switch s {
	case model.SignalUp:
		return "🟢 UP"
	case model.SignalDown:
		return "🔴 DOWN"
	default:
		return "⚪ NEUTRAL"
	}
}

func headlineSMA(prices []float64, period int) string {
	v, err := calculator.CalculateSMA(prices, period)
	if err != nil {
		return fmt.Sprintf("SMA%d: n/a", period)
	}
	return fmt.Sprintf("SMA%d: %.2f", period, v)
}

// FormatSignalReport formats one analysis into a Telegram HTML message.
func FormatSignalReport(res *model.SignalResult) string {
	var b strings.Builder

	name := res.Company.Symbol
	if res.Company.Name != "" {
		name = fmt.Sprintf("%s (%s)", res.Company.Name, res.Company.Symbol)
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n", html.EscapeString(name), time.Now().Format("2006-01-02")))
	if res.Company.Exchange != "" || res.Company.Industry != "" {
		b.WriteString(html.EscapeString(strings.Trim(res.Company.Exchange+" · "+res.Company.Industry, " ·")) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("信号: <b>%s</b>\n", signalBadge(res.Signal)))
	b.WriteString(fmt.Sprintf("当前价格: %.2f\n", res.LatestPrice))
	b.WriteString(headlineSMA(res.Prices, res.ShortPeriod) + " | " + headlineSMA(res.Prices, res.LongPeriod) + "\n")
	if low, high, ok := calculator.SeriesRange(model.FromValues(res.Prices)); ok {
		pos := calculator.RangePosition(res.LatestPrice, low, high)
		b.WriteString(fmt.Sprintf("区间: %.2f ~ %.2f (位置 %.0f%%)\n", low, high, pos*100))
	}

	b.WriteString("\n📈 <b>均线交叉:</b>\n")
	if !res.HasCrossover() {
		b.WriteString("  近期无交叉\n")
	} else {
		kind := "上穿"
		if res.CrossoverKind == model.SignalDown {
			kind = "下穿"
		}
		date := res.CrossoverDate()
		if date == "" {
			date = fmt.Sprintf("#%d", res.CrossoverIndex)
		}
		b.WriteString(fmt.Sprintf("  %s SMA%d %s SMA%d @ %.2f\n", date, res.ShortPeriod, kind, res.LongPeriod, res.CrossoverPrice))
		if res.DistanceDefined {
			b.WriteString(fmt.Sprintf("  距交叉价: %+.2f%%\n", res.DistancePercent))
		} else {
			b.WriteString("  距交叉价: 无法计算 (交叉价为0)\n")
		}
		if res.Signal == model.SignalNeutral && res.DistanceDefined {
			b.WriteString("  ⚠️ 价格已回穿交叉价，信号失效\n")
		}
	}

	if res.Earnings != "" {
		b.WriteString(fmt.Sprintf("\n📅 财报: %s\n", html.EscapeString(res.Earnings)))
	}
	if len(res.Ratings) > 0 {
		b.WriteString(fmt.Sprintf("⭐ 评级: %s\n", html.EscapeString(strings.Join(res.Ratings, ", "))))
	}
	if res.Sentiment != "" {
		b.WriteString(fmt.Sprintf("💬 情绪: %s\n", html.EscapeString(res.Sentiment)))
	}

	if len(res.News) > 0 {
		b.WriteString("\n📰 <b>新闻:</b>\n")
		for i, n := range res.News {
			if i == maxNewsItems {
				break
			}
			title := html.EscapeString(n.Title)
			if n.URL != "" {
				title = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(n.URL), title)
			}
			b.WriteString(fmt.Sprintf("  • %s", title))
			if n.Source != "" {
				b.WriteString(fmt.Sprintf(" (%s)", html.EscapeString(n.Source)))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RunFailure is a symbol that could not be analyzed in a run.
type RunFailure struct {
	Symbol string
	Err    error
}

// FormatRunSummary formats a compact table of one watchlist run.
func FormatRunSummary(results []*model.SignalResult, failures []RunFailure) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>观察列表</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	for _, res := range results {
		line := fmt.Sprintf("%s %s  %.2f", signalBadge(res.Signal), html.EscapeString(res.Company.Symbol), res.LatestPrice)
		if res.HasCrossover() && res.DistanceDefined {
			line += fmt.Sprintf("  (%+.2f%%)", res.DistancePercent)
		}
		b.WriteString(line + "\n")
	}
	for _, f := range failures {
		b.WriteString(fmt.Sprintf("❌ %s: %s\n", html.EscapeString(f.Symbol), html.EscapeString(f.Err.Error())))
	}
	if len(results) == 0 && len(failures) == 0 {
		b.WriteString("观察列表为空\n")
	}
	return b.String()
}

// FormatHistory formats journal entries for one symbol.
func FormatHistory(symbol string, entries []recorder.ReportEntry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕘 <b>%s 历史信号</b>\n\n", html.EscapeString(symbol)))
	if len(entries) == 0 {
		b.WriteString("暂无记录")
		return b.String()
	}
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s  %s  %.2f", e.RecordedAt.Format("01-02 15:04"), signalBadge(e.Signal), e.LatestPrice))
		if e.CrossoverIndex >= 0 && e.DistanceDefined {
			b.WriteString(fmt.Sprintf("  (%+.2f%%)", e.DistancePercent))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHelp lists the available commands.
func FormatHelp() string {
	return "可用命令:\n" +
		"• /analyze SYMBOL 分析单只股票\n" +
		"• /watchlist 分析观察列表\n" +
		"• /history SYMBOL 查看历史信号\n" +
		"• /help 帮助"
}
