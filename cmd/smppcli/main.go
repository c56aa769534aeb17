// Command smppcli is a demonstration harness for the smpp34 client
// library (spec.md §1's "thin collaborator", out of the library
// core). It binds to an SMSC and either submits one short message or
// listens for inbound PDUs, logging what it sees.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	smpp "github.com/mikhalchuk/smpp34"
	"github.com/mikhalchuk/smpp34/sm"
)

func main() {
	app := cli.NewApp()
	app.Name = "smppcli"
	app.Usage = "exercise an SMPP 3.4 ESME session against an SMSC"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "host", Value: "127.0.0.1"},
		cli.IntFlag{Name: "port", Value: 2775},
		cli.StringFlag{Name: "system-id"},
		cli.StringFlag{Name: "password"},
		cli.StringFlag{Name: "system-type"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "submit",
			Usage: "bind transceiver and submit one short message",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "from"},
				cli.StringFlag{Name: "to"},
				cli.StringFlag{Name: "text"},
			},
			Action: func(c *cli.Context) error {
				return runSubmit(c)
			},
		},
		{
			Name:  "listen",
			Usage: "bind receiver and log inbound PDUs until unbound",
			Action: func(c *cli.Context) error {
				return runListen(c)
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newSession(c *cli.Context) *smpp.Session {
	port := c.GlobalInt("port")
	return smpp.NewSession(smpp.Config{
		Host:       c.GlobalString("host"),
		Port:       uint16(port),
		SystemType: c.GlobalString("system-type"),
		Wildcard: func(p *smpp.PDU) (uint32, error) {
			logrus.WithField("sequence_number", p.Header.SequenceNumber).Infof("smppcli: received command 0x%08x", p.CommandID())
			return smpp.ESME_ROK, nil
		},
	})
}

func runSubmit(c *cli.Context) error {
	s := newSession(c)
	if err := s.Connect(); err != nil {
		return err
	}
	defer s.Disconnect()
	if err := s.BindTransceiver(c.GlobalString("system-id"), c.GlobalString("password")); err != nil {
		return err
	}

	esmClass, dataCoding, parts, err := sm.SplitShortMessage(c.String("text"), sm.CodingDefault)
	if err != nil {
		return err
	}
	for _, part := range parts {
		seq, err := s.SubmitSM(smpp.SubmitSMRequest{
			SourceAddr:      c.String("from"),
			DestinationAddr: c.String("to"),
			EsmClass:        esmClass,
			DataCoding:      dataCoding,
			ShortMessage:    part,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "submitted sequence "+strconv.FormatUint(uint64(seq), 10))
	}
	return s.Unbind()
}

func runListen(c *cli.Context) error {
	s := newSession(c)
	if err := s.Connect(); err != nil {
		return err
	}
	defer s.Disconnect()
	if err := s.BindReceiver(c.GlobalString("system-id"), c.GlobalString("password")); err != nil {
		return err
	}
	return s.Listen()
}
