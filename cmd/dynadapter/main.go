// Comando dynadapter executa as operações do adapter contra o backend
// configurado (DynamoDB ou LevelDB local).
//
//	dynadapter save   [-config f] -data '{"name":"Ana","score":9.5}'
//	dynadapter get    [-config f] -id <id>
//	dynadapter list   [-config f]
//	dynadapter delete [-config f] -id <id>
//	dynadapter filter [-config f] [-projection "a, b.c"] 'score__gt=9' 'name__eq="Ana"'
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

const usage = "Comandos esperados: save, get, list, delete, filter"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run contém a lógica principal testável e devolve o exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "Comando desconhecido: %s\n%s\n", args[0], usage)
		return 2
	}

	if err := cmd(ctx, args[1:], stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "Erro: %v\n", err)
		return 1
	}
	return 0
}
