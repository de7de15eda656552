package remote

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/rs/zerolog/log"

	"github.com/tessro/spool/internal/core"
)

const (
	// BusName is the well-known name spool claims on the session bus.
	BusName = "org.mpris.MediaPlayer2.spool"

	objectPath   = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	rootIface    = "org.mpris.MediaPlayer2"
	playerIface  = "org.mpris.MediaPlayer2.Player"
	trackPathFmt = "/org/tessro/spool/track/%d"
	noTrackPath  = dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")
)

// MPRIS publishes playback state on D-Bus and forwards media key presses.
type MPRIS struct {
	conn  *dbus.Conn
	props *prop.Properties

	lastSource   string
	lastDuration int64
	lastStatus   string
}

// mprisRoot implements org.mpris.MediaPlayer2.
type mprisRoot struct {
	dispatch Dispatcher
}

func (r mprisRoot) Raise() *dbus.Error { return nil }

func (r mprisRoot) Quit() *dbus.Error {
	r.dispatch(CommandQuit)
	return nil
}

// mprisPlayer implements org.mpris.MediaPlayer2.Player.
type mprisPlayer struct {
	dispatch Dispatcher
}

func (m mprisPlayer) Next() *dbus.Error      { m.dispatch(CommandNext); return nil }
func (m mprisPlayer) Previous() *dbus.Error  { m.dispatch(CommandPrevious); return nil }
func (m mprisPlayer) Pause() *dbus.Error     { m.dispatch(CommandPause); return nil }
func (m mprisPlayer) PlayPause() *dbus.Error { m.dispatch(CommandPlayPause); return nil }
func (m mprisPlayer) Stop() *dbus.Error      { m.dispatch(CommandStop); return nil }
func (m mprisPlayer) Play() *dbus.Error      { m.dispatch(CommandPlay); return nil }

// Seeking and opening URIs are not supported; CanSeek is false.
func (m mprisPlayer) Seek(int64) *dbus.Error                         { return nil }
func (m mprisPlayer) SetPosition(dbus.ObjectPath, int64) *dbus.Error { return nil }
func (m mprisPlayer) OpenUri(string) *dbus.Error                     { return nil }

// RegisterMPRIS connects to the session bus and claims BusName. Method calls
// are passed to dispatch on D-Bus goroutines.
func RegisterMPRIS(dispatch Dispatcher) (*MPRIS, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	m, err := register(conn, dispatch)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return m, nil
}

func register(conn *dbus.Conn, dispatch Dispatcher) (*MPRIS, error) {
	root := mprisRoot{dispatch: dispatch}
	player := mprisPlayer{dispatch: dispatch}

	if err := conn.Export(root, objectPath, rootIface); err != nil {
		return nil, fmt.Errorf("export %s: %w", rootIface, err)
	}
	if err := conn.Export(player, objectPath, playerIface); err != nil {
		return nil, fmt.Errorf("export %s: %w", playerIface, err)
	}

	playerProps := map[string]*prop.Prop{
		"PlaybackStatus": {Value: StatusStopped, Writable: false, Emit: prop.EmitTrue},
		"Metadata":       {Value: metadata(core.PlaybackState{}), Writable: false, Emit: prop.EmitTrue},
		"Position":       {Value: int64(0), Writable: false, Emit: prop.EmitFalse},
		"Rate":           {Value: 1.0, Writable: false, Emit: prop.EmitFalse},
		"MinimumRate":    {Value: 1.0, Writable: false, Emit: prop.EmitFalse},
		"MaximumRate":    {Value: 1.0, Writable: false, Emit: prop.EmitFalse},
		"Volume":         {Value: 1.0, Writable: false, Emit: prop.EmitFalse},
		"CanControl":     {Value: true, Writable: false, Emit: prop.EmitFalse},
		"CanGoNext":      {Value: true, Writable: false, Emit: prop.EmitFalse},
		"CanGoPrevious":  {Value: true, Writable: false, Emit: prop.EmitFalse},
		"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitFalse},
		"CanPause":       {Value: true, Writable: false, Emit: prop.EmitFalse},
		"CanSeek":        {Value: false, Writable: false, Emit: prop.EmitFalse},
	}
	rootProps := map[string]*prop.Prop{
		"CanQuit":             {Value: true, Writable: false, Emit: prop.EmitFalse},
		"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse},
		"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitFalse},
		"Identity":            {Value: "spool", Writable: false, Emit: prop.EmitFalse},
		"SupportedUriSchemes": {Value: []string{}, Writable: false, Emit: prop.EmitFalse},
		"SupportedMimeTypes":  {Value: supportedMimeTypes, Writable: false, Emit: prop.EmitFalse},
	}

	props, err := prop.Export(conn, objectPath, map[string]map[string]*prop.Prop{
		rootIface:   rootProps,
		playerIface: playerProps,
	})
	if err != nil {
		return nil, fmt.Errorf("export properties: %w", err)
	}

	node := &introspect.Node{
		Name: string(objectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       rootIface,
				Methods:    introspect.Methods(root),
				Properties: props.Introspection(rootIface),
			},
			{
				Name:       playerIface,
				Methods:    introspect.Methods(player),
				Properties: props.Introspection(playerIface),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), objectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request name %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, errors.New("name already owned: " + BusName)
	}

	log.Info().Str("name", BusName).Msg("MPRIS service registered")
	return &MPRIS{conn: conn, props: props}, nil
}

// Update publishes state. Signals are only emitted when the status or the
// track's metadata changed.
func (m *MPRIS) Update(state core.PlaybackState) {
	m.props.SetMust(playerIface, "Position", state.CurrentTime.Microseconds())

	if status := Status(state); status != m.lastStatus {
		m.lastStatus = status
		m.props.SetMust(playerIface, "PlaybackStatus", status)
	}

	length := state.Duration.Microseconds()
	if src := state.SourceID(); src != m.lastSource || length != m.lastDuration {
		m.lastSource = src
		m.lastDuration = length
		m.props.SetMust(playerIface, "Metadata", metadata(state))
	}
}

// Close releases the bus name and the connection.
func (m *MPRIS) Close() error {
	if _, err := m.conn.ReleaseName(BusName); err != nil {
		log.Debug().Err(err).Msg("Failed to release MPRIS name")
	}
	return m.conn.Close()
}

// MPRIS playback statuses.
const (
	StatusPlaying = "Playing"
	StatusPaused  = "Paused"
	StatusStopped = "Stopped"
)

var supportedMimeTypes = []string{
	"audio/mpeg",
	"audio/wav",
	"audio/flac",
	"audio/ogg",
}

// Status maps state to an MPRIS PlaybackStatus.
func Status(state core.PlaybackState) string {
	switch {
	case !state.HasTrack():
		return StatusStopped
	case state.IsPlaying:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

func metadata(state core.PlaybackState) map[string]dbus.Variant {
	t := state.Track()
	if t == nil {
		return map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(noTrackPath),
		}
	}
	return map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath(fmt.Sprintf(trackPathFmt, state.Playlist.CurrentIndex))),
		"mpris:length":  dbus.MakeVariant(state.Duration.Microseconds()),
		"xesam:title":   dbus.MakeVariant(t.Title),
		"xesam:artist":  dbus.MakeVariant([]string{t.Artist}),
	}
}
