package dev

import (
	"fmt"
	"runtime"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common"
)

func (bot *Bot) stats(ctx *command.TextContext) error {
	_, err := ctx.Reply("", bot.statsEmbed(time.Now()))
	return err
}

func (bot *Bot) statsEmbed(now time.Time) discord.Embed {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	me := bot.Me().Tag()

	e := discord.Embed{
		Title:     "Stats: " + me,
		Color:     common.ColourBlue,
		Timestamp: discord.NewTimestamp(now),
		Footer:    &discord.EmbedFooter{Text: me},
		Fields: []discord.EmbedField{
			{
				Name:   "Uptime:",
				Value:  fmt.Sprintf("`%v`", common.FormatUptime(now.Sub(bot.Config.Start))),
				Inline: true,
			},
			{
				Name:   "Status:",
				Value:  fmt.Sprintf("`%v`", bot.Status()),
				Inline: true,
			},
			{
				Name:   "Cogs:",
				Value:  fmt.Sprintf("`%v`", bot.Config.Counts.Cogs()),
				Inline: true,
			},
			{
				Name:   "Commands:",
				Value:  fmt.Sprintf("`%v`", bot.Config.Counts.Commands()),
				Inline: true,
			},
			{
				Name:   "Memory usage:",
				Value:  fmt.Sprintf("`%v / %v`", humanize.Bytes(stats.Alloc), humanize.Bytes(stats.Sys)),
				Inline: true,
			},
		},
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		e.Fields = append(e.Fields, discord.EmbedField{
			Name:   "System memory:",
			Value:  fmt.Sprintf("`%v / %v`", humanize.Bytes(vm.Used), humanize.Bytes(vm.Total)),
			Inline: true,
		})
	}

	e.Fields = append(e.Fields, discord.EmbedField{
		Name: "Version:",
		Value: fmt.Sprintf("`%v` (arikawa `%v`, %v)",
			common.Version(), common.DependencyVersion("github.com/diamondburned/arikawa/v3"), runtime.Version()),
	})

	return e
}
