package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

func main() {
	fmt.Println("Запуск auth-portal...")

	ctlName := "authctl"
	if runtime.GOOS == "windows" {
		ctlName = "authctl.exe"
	}
	// запускаем сервер на фоне
	server := exec.Command("go", "run", "./cmd/server/main.go")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	time.Sleep(3 * time.Second)
	// собираем утилиту администрирования
	if _, err := os.Stat(ctlName); os.IsNotExist(err) {
		fmt.Println("Сборка authctl...")
		build := exec.Command("go", "build", "-o", ctlName, "./cmd/authctl/main.go")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		build.Run()
		// если не винда даём права
		if runtime.GOOS != "windows" {
			os.Chmod(ctlName, 0755)
		}
	}

	fmt.Println("Сервер запущен, страница входа: http://127.0.0.1:8080/login")
	// пишем как создавать пользователей из консоли
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Пользователя можно завести так: .\\authctl.exe create-user --name ... --email ...")
	} else {
		fmt.Println("Данный терминал не закрывай. Пользователя можно завести так: ./authctl create-user --name ... --email ...")
	}

	server.Wait()
}
