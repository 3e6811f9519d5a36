// Package wizard builds a single job from interactive answers.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/maxvaer/brutecli/internal/config"
)

const banner = `
 ___          _        ___ _    ___
| _ )_ _ _  _| |_ ___ / __| |  |_ _|
| _ \ '_| || |  _/ -_) (__| |__ | |
|___/_|  \_,_|\__\___|\___|____|___|
`

// Banner prints the wizard banner.
func Banner(w io.Writer, noColor bool) {
	c := color.New(color.FgMagenta)
	if noColor {
		c.DisableColor()
	}
	c.Fprint(w, banner+"\n")
}

type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(msg, def string) string {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", msg, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", msg)
	}
	ans := ""
	if p.sc.Scan() {
		ans = strings.TrimSpace(p.sc.Text())
	}
	if ans == "" {
		return def
	}
	return ans
}

func (p *prompter) askInt(key, msg, def string) (int, error) {
	raw := p.ask(msg, def)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &config.Error{Key: key, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return n, nil
}

// Ask prompts on out and reads answers from in, one per line. Blank answers
// take the default shown in brackets. The returned job is normalized and
// validated; a bad answer is reported as a *config.Error.
func Ask(in io.Reader, out io.Writer) (config.Job, error) {
	p := &prompter{sc: bufio.NewScanner(in), out: out}

	var job config.Job
	job.Protocol = config.Protocol(strings.ToLower(p.ask("Protocol (ssh / ftp / http)", "ssh")))
	job.Target = p.ask("Target host/IP", "")

	threads, err := p.askInt("threads", "Threads", "4")
	if err != nil {
		return config.Job{}, err
	}
	job.Threads = threads

	timeout, err := p.askInt("timeout", "Timeout seconds", "5")
	if err != nil {
		return config.Job{}, err
	}
	job.Timeout = time.Duration(timeout) * time.Second

	job.Username = p.ask("Single username (blank = userlist)", "")
	job.UserList = p.ask("Custom userlist file (blank = built-in)", "")
	job.PassList = p.ask("Custom passlist file (blank = built-in)", "")

	switch job.Protocol {
	case config.HTTP:
		job.URL = p.ask("Login URL (https://…/login)", "")
		job.UserField = p.ask("Form field – username", "username")
		job.PassField = p.ask("Form field – password", "password")
		job.Success = p.ask("Success keyword/redirect", "dashboard")
	case config.SSH:
		if job.Port, err = p.askInt("port", "SSH port", "22"); err != nil {
			return config.Job{}, err
		}
	case config.FTP:
		if job.Port, err = p.askInt("port", "FTP port", "21"); err != nil {
			return config.Job{}, err
		}
	}
	fmt.Fprintln(out)

	job = job.Normalize()
	if err := job.Validate(); err != nil {
		return config.Job{}, err
	}
	return job, nil
}
