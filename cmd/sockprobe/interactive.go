package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/rawsock/registry"
	"github.com/wippyai/rawsock/sockaddr"
	"github.com/wippyai/rawsock/socket"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	addrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxLogLines = 12

const helpText = `open udp|tcp [ipv6]      create a socket
bind H ADDR             bind handle H
listen H                start listening (tcp)
connect H ADDR          connect handle H
accept H                accept a pending connection
send H TEXT             send on a connected socket
sendto H ADDR TEXT      send a datagram
recv H                  receive if data is pending
poll [MS]               wait for readable sockets
close H                 close handle H
help                    show this text`

type logLine struct {
	text string
	err  bool
}

// eventLog records registry lifecycle events for display.
type eventLog struct {
	lines []string
}

func (l *eventLog) OnSocketEvent(e registry.Event) {
	if e.Type == registry.EventBorrowed || e.Type == registry.EventReturned {
		return
	}
	l.lines = append(l.lines, fmt.Sprintf("#%d %s", e.Handle, e.Type))
}

type socketInfo struct {
	proto string
	local sockaddr.Addr
	peer  sockaddr.Addr
}

type interactiveModel struct {
	reg    *registry.Registry
	events *eventLog
	info   map[registry.Handle]*socketInfo
	input  textinput.Model
	log    []logLine
}

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "help"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	events := &eventLog{}
	reg := registry.New()
	reg.Subscribe(events)

	return &interactiveModel{
		reg:    reg,
		events: events,
		info:   make(map[registry.Handle]*socketInfo),
		input:  ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			if err := m.reg.Close(); err != nil {
				m.fail(err)
			}
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line != "" {
				m.print("> %s", line)
				m.exec(line)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) print(format string, args ...any) {
	m.log = append(m.log, logLine{text: fmt.Sprintf(format, args...)})
}

func (m *interactiveModel) fail(err error) {
	m.log = append(m.log, logLine{text: err.Error(), err: true})
}

func (m *interactiveModel) exec(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "open":
		err = m.open(args)
	case "bind":
		err = m.withAddr(args, func(h registry.Handle, s *socket.Socket, a sockaddr.Addr) error {
			if err := s.Bind(a); err != nil {
				return err
			}
			m.refresh(h, s)
			return nil
		})
	case "connect":
		err = m.withAddr(args, func(h registry.Handle, s *socket.Socket, a sockaddr.Addr) error {
			if err := s.Connect(a); err != nil {
				return err
			}
			m.info[h].peer = a
			m.refresh(h, s)
			return nil
		})
	case "listen":
		err = m.withHandle(args, func(h registry.Handle, s *socket.Socket) error {
			return s.Listen(16)
		})
	case "accept":
		err = m.withHandle(args, m.accept)
	case "send":
		err = m.withHandle(args, func(h registry.Handle, s *socket.Socket) error {
			n, err := s.Send([]byte(strings.Join(args[1:], " ")), 0)
			if err == nil {
				m.print("sent %d bytes", n)
			}
			return err
		})
	case "sendto":
		err = m.withAddr(args, func(h registry.Handle, s *socket.Socket, a sockaddr.Addr) error {
			n, err := s.SendTo([]byte(strings.Join(args[2:], " ")), a, 0)
			if err == nil {
				m.print("sent %d bytes to %v", n, a)
				m.refresh(h, s)
			}
			return err
		})
	case "recv":
		err = m.withHandle(args, m.recv)
	case "poll":
		err = m.poll(args)
	case "close":
		err = m.withHandle(args, func(h registry.Handle, _ *socket.Socket) error {
			delete(m.info, h)
			return m.reg.CloseHandle(h)
		})
	case "help":
		for _, l := range strings.Split(helpText, "\n") {
			m.print("%s", l)
		}
	default:
		err = fmt.Errorf("unknown command %q, try help", cmd)
	}

	if err != nil {
		m.fail(err)
	}
}

func (m *interactiveModel) open(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: open udp|tcp [ipv6]")
	}
	typ, proto, err := parseProto(args[0])
	if err != nil {
		return err
	}
	family := socket.FamilyIPv4
	if len(args) > 1 && args[1] == "ipv6" {
		family = socket.FamilyIPv6
	}

	s, err := socket.Open(family, typ, proto, socket.DefaultOptions())
	if err != nil {
		return err
	}
	h, err := m.reg.Insert(s)
	if err != nil {
		s.Drop()
		return err
	}
	m.info[h] = &socketInfo{proto: args[0]}
	return nil
}

func (m *interactiveModel) accept(h registry.Handle, s *socket.Socket) error {
	res, err := m.reg.Select([]registry.Handle{h}, nil, nil, 0)
	if err != nil {
		return err
	}
	if len(res.Read) == 0 {
		m.print("no pending connection")
		return nil
	}

	child, peer, err := s.Accept()
	if err != nil {
		return err
	}
	ch, err := m.reg.Insert(child)
	if err != nil {
		child.Drop()
		return err
	}
	m.info[ch] = &socketInfo{proto: m.info[h].proto, peer: peer}
	m.refresh(ch, child)
	return nil
}

func (m *interactiveModel) recv(h registry.Handle, s *socket.Socket) error {
	res, err := m.reg.Select([]registry.Handle{h}, nil, nil, 0)
	if err != nil {
		return err
	}
	if len(res.Read) == 0 {
		m.print("nothing pending on #%d", h)
		return nil
	}

	buf := make([]byte, 64<<10)
	n, from, err := s.RecvFrom(buf, 0)
	if err != nil {
		return err
	}
	if !from.IsValid() {
		from = m.info[h].peer
	}
	m.print("#%d %v: %q", h, from, buf[:n])
	return nil
}

func (m *interactiveModel) poll(args []string) error {
	timeout := time.Duration(0)
	if len(args) > 0 {
		ms, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		timeout = time.Duration(ms) * time.Millisecond
	}

	var handles []registry.Handle
	m.reg.Each(func(h registry.Handle, _ *socket.Socket) bool {
		handles = append(handles, h)
		return true
	})
	if len(handles) == 0 {
		return fmt.Errorf("no sockets open")
	}

	res, err := m.reg.Select(handles, nil, nil, timeout)
	if err != nil {
		return err
	}
	var ready []string
	for _, i := range res.Read {
		ready = append(ready, "#"+strconv.Itoa(int(handles[i])))
	}
	if len(ready) == 0 {
		m.print("no socket readable")
		return nil
	}
	m.print("readable: %s", strings.Join(ready, " "))
	return nil
}

func (m *interactiveModel) refresh(h registry.Handle, s *socket.Socket) {
	if a, err := s.Name(); err == nil {
		m.info[h].local = a
	}
}

func (m *interactiveModel) withHandle(args []string, fn func(registry.Handle, *socket.Socket) error) error {
	if len(args) == 0 {
		return fmt.Errorf("missing handle")
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 32)
	if err != nil {
		return fmt.Errorf("handle %q: %w", args[0], err)
	}
	h := registry.Handle(n)

	s, ok := m.reg.Get(h)
	if !ok {
		return fmt.Errorf("no socket #%d", h)
	}
	return fn(h, s)
}

func (m *interactiveModel) withAddr(args []string, fn func(registry.Handle, *socket.Socket, sockaddr.Addr) error) error {
	if len(args) < 2 {
		return fmt.Errorf("missing address")
	}
	a, err := sockaddr.Parse(args[1])
	if err != nil {
		return err
	}
	return m.withHandle(args, func(h registry.Handle, s *socket.Socket) error {
		return fn(h, s, a)
	})
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Socket Probe"))
	b.WriteString(fmt.Sprintf(" %d open\n\n", m.reg.Len()))

	m.reg.Each(func(h registry.Handle, _ *socket.Socket) bool {
		info := m.info[h]
		if info == nil {
			return true
		}
		b.WriteString(handleStyle.Render(fmt.Sprintf("#%-3d", h)))
		b.WriteString(" " + info.proto + " ")
		b.WriteString(addrStyle.Render(info.local.String()))
		if info.peer.IsValid() {
			b.WriteString(" -> " + addrStyle.Render(info.peer.String()))
		}
		b.WriteString("\n")
		return true
	})
	b.WriteString("\n")

	lines := m.log
	if len(lines) > maxLogLines {
		lines = lines[len(lines)-maxLogLines:]
	}
	for _, l := range lines {
		if l.err {
			b.WriteString(errorStyle.Render("Error: " + l.text))
		} else {
			b.WriteString(resultStyle.Render(l.text))
		}
		b.WriteString("\n")
	}

	if n := len(m.events.lines); n > 0 {
		b.WriteString(helpStyle.Render("last event: " + m.events.lines[n-1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • help commands • esc quit"))

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
