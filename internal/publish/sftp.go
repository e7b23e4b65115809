package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	defaultSSHPort = "22"
	dialTimeout    = 10 * time.Second
)

type sftpPublisher struct {
	ssh    *ssh.Client
	client *sftp.Client
	dest   Destination
}

func newSFTP(ctx context.Context, d Destination, opts Options) (Publisher, error) {
	if d.User == nil || d.User.Username() == "" {
		return nil, errors.New("sftp publish URL needs a user (sftp://user@host/dir)")
	}
	auth, err := sshAuth(d, opts)
	if err != nil {
		return nil, err
	}
	hostKeys, err := hostKeyCallback(opts.KnownHostsFile)
	if err != nil {
		return nil, err
	}
	cfg := &ssh.ClientConfig{
		User:            d.User.Username(),
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         dialTimeout,
	}

	addr := d.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, defaultSSHPort)
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}
	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	sshClient := ssh.NewClient(clientConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("create sftp client: %w", err)
	}
	if err := client.MkdirAll(d.Prefix); err != nil {
		client.Close()
		sshClient.Close()
		return nil, fmt.Errorf("ensure remote dir %s: %w", d.Prefix, err)
	}
	return &sftpPublisher{ssh: sshClient, client: client, dest: d}, nil
}

func sshAuth(d Destination, opts Options) ([]ssh.AuthMethod, error) {
	if opts.SSHKeyFile != "" {
		key, err := os.ReadFile(opts.SSHKeyFile)
		if err != nil {
			return nil, err
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	if pw, ok := d.User.Password(); ok {
		return []ssh.AuthMethod{ssh.Password(pw)}, nil
	}
	return nil, errors.New("no sftp auth method; use --sftp-key or a password in the URL")
}

func hostKeyCallback(file string) (ssh.HostKeyCallback, error) {
	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		file = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(file)
	if err != nil {
		return nil, fmt.Errorf("load known hosts: %w", err)
	}
	return cb, nil
}

func (p *sftpPublisher) Publish(_ context.Context, localPath string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	remote := path.Join(p.dest.Prefix, filepath.Base(localPath))
	dst, err := p.client.Create(remote)
	if err != nil {
		return "", fmt.Errorf("create remote file %s: %w", remote, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy to remote file %s: %w", remote, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close remote file %s: %w", remote, err)
	}
	return "sftp://" + p.dest.Host + remote, nil
}

func (p *sftpPublisher) Close() error {
	return errors.Join(p.client.Close(), p.ssh.Close())
}
