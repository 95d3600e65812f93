package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"streampack/config"
	"streampack/logger"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPClient publishes outputs to a remote host over SFTP. The "bucket" maps
// to a base directory on the remote side; retrieval URLs are joined from a
// configured public base URL, since SFTP has no presign equivalent.
type SFTPClient struct {
	addr       string
	sshConfig  *ssh.ClientConfig
	publicBase string
}

// NewSFTPClient builds an SFTP-backed storage client from environment
// configuration. Password or private-key auth; the key may be base64 or raw
// PEM.
func NewSFTPClient() (*SFTPClient, error) {
	host := config.GetSFTPHost()
	user := config.GetSFTPUser()
	if host == "" || user == "" {
		return nil, fmt.Errorf("sftp backend: STREAMPACK_SFTP_HOST and STREAMPACK_SFTP_USER must be set")
	}

	var auths []ssh.AuthMethod
	if privateKey := config.GetSFTPPrivateKey(); privateKey != "" {
		keyBytes, err := base64.StdEncoding.DecodeString(privateKey)
		if err != nil {
			keyBytes = []byte(privateKey)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		auths = append(auths, ssh.PublicKeys(signer))
	} else if password := config.GetSFTPPassword(); password != "" {
		auths = append(auths, ssh.Password(password))
	} else {
		return nil, fmt.Errorf("sftp backend: no auth method; set STREAMPACK_SFTP_PASSWORD or STREAMPACK_SFTP_KEY")
	}

	return &SFTPClient{
		addr: net.JoinHostPort(host, config.GetSFTPPort()),
		sshConfig: &ssh.ClientConfig{
			User:            user,
			Auth:            auths,
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         10 * time.Second,
		},
		publicBase: config.GetSFTPBaseURL(),
	}, nil
}

// connect dials a fresh session per call; sessions are cheap relative to the
// transfers riding on them and a stale cached connection would fail mid-job.
func (c *SFTPClient) connect(ctx context.Context) (*ssh.Client, *sftp.Client, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial tcp %s: %w", c.addr, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, c.addr, c.sshConfig)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("ssh handshake with %s: %w", c.addr, err)
	}
	sshClient := ssh.NewClient(clientConn, chans, reqs)

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, fmt.Errorf("create sftp client: %w", err)
	}
	return sshClient, sftpClient, nil
}

func (c *SFTPClient) Download(ctx context.Context, bucket, key, destPath string) error {
	sshClient, sftpClient, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer sshClient.Close()
	defer sftpClient.Close()

	remotePath := path.Join("/", bucket, key)
	rf, err := sftpClient.Open(remotePath)
	if err != nil {
		return fmt.Errorf("open remote file %s: %w", remotePath, err)
	}
	defer rf.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rf); err != nil {
		return fmt.Errorf("copy from remote file %s: %w", remotePath, err)
	}
	return nil
}

func (c *SFTPClient) Upload(ctx context.Context, bucket, key, srcPath, _ string) error {
	sshClient, sftpClient, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer sshClient.Close()
	defer sftpClient.Close()

	remotePath := path.Join("/", bucket, key)
	if err := mkdirAllSFTP(sftpClient, path.Dir(remotePath)); err != nil {
		return fmt.Errorf("ensure remote dir %s: %w", path.Dir(remotePath), err)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer f.Close()

	rf, err := sftpClient.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create remote file %s: %w", remotePath, err)
	}
	defer rf.Close()

	if _, err := io.Copy(rf, f); err != nil {
		return fmt.Errorf("copy to remote file %s: %w", remotePath, err)
	}

	logger.Debugf("Uploaded '%s' to %s", remotePath, c.addr)
	return nil
}

func (c *SFTPClient) PresignURL(_ context.Context, bucket, key string) (string, error) {
	if c.publicBase == "" {
		return "", fmt.Errorf("sftp backend: STREAMPACK_SFTP_BASE_URL not set")
	}
	return strings.TrimSuffix(c.publicBase, "/") + path.Join("/", bucket, key), nil
}

// mkdirAllSFTP mimics os.MkdirAll for an SFTP server by creating each
// segment of the path.
func mkdirAllSFTP(client *sftp.Client, dir string) error {
	if dir == "" || dir == "." || dir == "/" {
		return nil
	}

	parts := strings.Split(dir, "/")
	cur := ""
	if strings.HasPrefix(dir, "/") {
		cur = "/"
	}

	for _, p := range parts {
		if p == "" {
			continue
		}
		cur = path.Join(cur, p)
		if _, err := client.Stat(cur); err != nil {
			if os.IsNotExist(err) {
				if err := client.Mkdir(cur); err != nil {
					return fmt.Errorf("mkdir %s: %w", cur, err)
				}
			} else {
				return fmt.Errorf("stat %s: %w", cur, err)
			}
		}
	}
	return nil
}
