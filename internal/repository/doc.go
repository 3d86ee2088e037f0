// Package repository persists the command log mirror in MySQL.
package repository
