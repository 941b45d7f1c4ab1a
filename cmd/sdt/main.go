package main

import (
	"datagram-transfer/netem"
	"datagram-transfer/transfer"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/google/gops/agent"
	"github.com/sirupsen/logrus"
	"github.com/vharitonsky/iniflags"
)

var log = &logrus.Logger{
	Out:   os.Stderr,
	Level: logrus.InfoLevel,
	Formatter: &logrus.TextFormatter{
		FullTimestamp: true,
	},
}

var (
	host       string
	bindHost   string
	windowSize int
	chunkSize  int
	timeout    time.Duration
	sendRate   float64
	verbose    bool
	gops       bool

	netemLoss    int
	netemCorrupt int
)

func main() {
	flag.StringVar(&host, "host", "127.0.0.1", "sender host the receiver says hello to")
	flag.StringVar(&bindHost, "bind", "", "local host the sender listens on, all interfaces if empty")
	flag.IntVar(&windowSize, "window", 10, "segments per acknowledgement, must match on both sides")
	flag.IntVar(&chunkSize, "chunk", 10, "payload bytes per segment, must match on both sides")
	flag.DurationVar(&timeout, "timeout", 0, "give up on a blocking receive after this long, 0 waits forever")
	flag.Float64Var(&sendRate, "rate", 0, "maximum data segments per second, 0 is unlimited")
	flag.BoolVar(&verbose, "verbose", false, "log every segment")
	flag.BoolVar(&gops, "gops", false, "start the gops diagnostics agent")
	flag.IntVar(&netemLoss, "netem-loss", 0, "drop every nth outgoing datagram (testing aid)")
	flag.IntVar(&netemCorrupt, "netem-corrupt", 0, "corrupt every nth outgoing datagram (testing aid)")
	flag.Usage = usage
	iniflags.Parse()

	cmd, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		netem.SetLogger(log)
	}
	if gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("gops: %v", err)
		}
		defer agent.Close()
	}
	if err := start(cmd); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "%v\n\nFlags:\n", errUsage)
	flag.PrintDefaults()
}

func start(cmd command) error {
	cfg := transfer.DefaultConfig()
	cfg.WindowSize = windowSize
	cfg.ChunkSize = chunkSize
	cfg.Timeout = timeout
	cfg.SendRate = sendRate
	cfg.Logger = log

	port := strconv.Itoa(int(cmd.port))
	switch cmd.role {
	case roleSender:
		return startSender(net.JoinHostPort(bindHost, port), cmd.path, cfg)
	default:
		return startReceiver(net.JoinHostPort(host, port), cmd.path, cfg)
	}
}

func startSender(laddr, path string, cfg transfer.Config) error {
	conn, err := net.ListenPacket("udp", laddr)
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	s := transfer.NewSender(emulate(conn), cfg)
	defer s.Close()
	log.WithFields(logrus.Fields{
		"file": path,
		"addr": s.Addr(),
	}).Info("File sender started")
	if err := s.SendFile(path); err != nil {
		return err
	}
	log.WithFields(s.Stats().Fields()).Info("File sent")
	return nil
}

func startReceiver(raddr, path string, cfg transfer.Config) error {
	addr, err := net.ResolveUDPAddr("udp", raddr)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	r := transfer.NewReceiver(emulate(conn), addr, cfg)
	defer r.Close()
	log.WithFields(logrus.Fields{
		"file":   path,
		"sender": addr,
	}).Info("File receiver started")
	if _, err := r.ReceiveFile(path); err != nil {
		return err
	}
	log.WithFields(r.Stats().Fields()).Info("File received")
	return nil
}

func emulate(conn net.PacketConn) net.PacketConn {
	if netemLoss <= 0 && netemCorrupt <= 0 {
		return conn
	}
	log.WithFields(logrus.Fields{
		"loss":    netemLoss,
		"corrupt": netemCorrupt,
	}).Warn("Network emulation enabled")
	return netem.New(conn, netem.Config{
		WriteLossNth:    netemLoss,
		WriteCorruptNth: netemCorrupt,
	})
}
