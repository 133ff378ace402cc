package model

// Platform is the chat platform of a bot integration
type Platform string

const (
	PlatformDiscord Platform = "discord"
	PlatformSlack   Platform = "slack"
)

// BotIntegration connects an agent to a chat platform
type BotIntegration struct {
	Key         string
	WorkspaceID WorkspaceID
	AgentID     AgentID
	Platform    Platform
	Config      BotConfig
}

// BotConfig is the platform specific part of a bot integration
type BotConfig interface {
	botConfig()
}

// DiscordConfig carries the credentials and the registered slash command of a Discord bot
type DiscordConfig struct {
	ApplicationID string
	BotToken      string
	Command       *DiscordCommand
}

type DiscordCommand struct {
	CommandID   string
	CommandName string
}

// OpaqueConfig keeps the raw config of platforms with nothing to clean up remotely
type OpaqueConfig struct {
	Raw Node
}

func (*DiscordConfig) botConfig() {}
func (*OpaqueConfig) botConfig()  {}

// NewBotIntegration decodes a bot integration record using the layout field names
func NewBotIntegration(rec *Record, fields LayoutFields) *BotIntegration {
	bot := &BotIntegration{
		Key:         rec.Key,
		WorkspaceID: WorkspaceID(rec.Field(fields.WorkspaceID)),
		AgentID:     AgentID(rec.Field(fields.AgentID)),
		Platform:    Platform(rec.Field(fields.Platform)),
	}

	raw := NewNode(rec.Data[fields.Config])
	if bot.Platform != PlatformDiscord {
		bot.Config = &OpaqueConfig{Raw: raw}
		return bot
	}

	cfg := &DiscordConfig{}
	if m, ok := raw.(Map); ok {
		cfg.ApplicationID = stringOf(m["applicationId"])
		cfg.BotToken = stringOf(m["botToken"])
		if cmd, ok := m["discordCommand"].(Map); ok {
			cfg.Command = &DiscordCommand{
				CommandID:   stringOf(cmd["commandId"]),
				CommandName: stringOf(cmd["commandName"]),
			}
		}
	}
	bot.Config = cfg

	return bot
}

// RemoteCommand returns the Discord command to deregister, or nil if there is nothing
// that can be deregistered
func (x *BotIntegration) RemoteCommand() *DiscordConfig {
	cfg, ok := x.Config.(*DiscordConfig)
	if !ok || cfg.Command == nil || cfg.Command.CommandID == "" {
		return nil
	}
	return cfg
}

func stringOf(n Node) string {
	if s, ok := n.(String); ok {
		return string(s)
	}
	return ""
}
