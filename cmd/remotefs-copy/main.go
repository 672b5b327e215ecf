package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/akamensky/argparse"

	"remotefs/checksum"
	"remotefs/client"
	"remotefs/loadbalance"
	"remotefs/protocol"
	"remotefs/registry"
	"remotefs/server"
)

const copyBufferSize = 1024

func main() {
	args := argparse.NewParser("remotefs-copy", "Copies a file from a remote file server to the local disk")

	host := args.String("a", "address", &argparse.Options{Required: false, Help: "Server host address"})
	port := args.Int("p", "port", &argparse.Options{Required: false, Help: "Server port"})
	etcd := args.StringList("r", "registry", &argparse.Options{Required: false,
		Help: "etcd endpoint for server discovery (repeatable, replaces --address/--port)"})
	strategy := args.Selector("b", "balancer", []string{"roundrobin", "random"},
		&argparse.Options{Required: false, Help: "Server selection strategy when discovering", Default: "roundrobin"})
	remote := args.String("f", "file", &argparse.Options{Required: true, Help: "Remote file path"})
	local := args.String("o", "out", &argparse.Options{Required: true, Help: "Local destination path"})
	block := args.Int("c", "blocksize", &argparse.Options{Required: false, Help: "Checksum block size in bytes",
		Default: checksum.DefaultBlockSize})

	err := args.Parse(os.Args)

	if err != nil {
		fmt.Print(args.Usage(err))
		os.Exit(1)
	}

	addr, err := resolveServer(*host, *port, *etcd, *strategy)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	c, err := client.Dial(addr, nil)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer c.Close()
	fmt.Println("Connected to", addr)

	fd, err := c.Open(*remote, protocol.FlagReadOnly, 0)
	if err != nil {
		fmt.Println("open remote file:", err.Error())
		os.Exit(1)
	}

	remoteSum, err := c.Checksum(uint32(fd), uint32(*block))
	if err != nil {
		fmt.Println("remote checksum:", err.Error())
		os.Exit(1)
	}
	fmt.Println("Remote checksum", remoteSum)

	out, err := os.OpenFile(*local, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0744)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer out.Close()

	copied := 0
	buf := make([]byte, copyBufferSize)
	for {
		n, err := c.Read(uint32(fd), buf)
		if err != nil {
			fmt.Println("read remote file:", err.Error())
			os.Exit(1)
		}
		if n == 0 {
			break
		}
		if _, err := out.Write(buf[:n]); err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
		copied += int(n)
	}

	if _, err := c.CloseFile(uint32(fd)); err != nil {
		fmt.Println("close remote file:", err.Error())
		os.Exit(1)
	}

	localSum, err := checksum.Sum(out, *block)
	if err != nil {
		fmt.Println("local checksum:", err.Error())
		os.Exit(1)
	}

	if localSum != remoteSum {
		fmt.Println("Checksum mismatch: remote", remoteSum, "local", localSum)
		os.Exit(2)
	}
	fmt.Println("Copied", copied, "bytes, checksums match")
}

// resolveServer turns the flags into a dial address, either directly or by
// asking the registry for a live server and letting the balancer choose.
func resolveServer(host string, port int, endpoints []string, strategy string) (string, error) {
	if len(endpoints) == 0 {
		if host == "" || port == 0 {
			return "", fmt.Errorf("either --address and --port or --registry is required")
		}
		return host + ":" + strconv.Itoa(port), nil
	}

	reg, err := registry.NewEtcdRegistry(endpoints)
	if err != nil {
		return "", err
	}
	defer reg.Close()

	instances, err := reg.Discover(server.ServiceName)
	if err != nil {
		return "", err
	}

	var balancer loadbalance.Balancer
	switch strategy {
	case "random":
		balancer = &loadbalance.WeightedRandomBalancer{}
	default:
		balancer = &loadbalance.RoundRobinBalancer{}
	}

	instance, err := balancer.Pick(instances)
	if err != nil {
		return "", err
	}
	fmt.Println("Discovered", instance.Addr, "via", balancer.Name())
	return instance.Addr, nil
}
